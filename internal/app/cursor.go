package app

// Cursor is an index into a sequence of count items.
// It stays in [0, count-1] and is inert at 0 when count is 0. No move underflows.
type Cursor struct {
	index int
}

// Index returns the current position
func (c Cursor) Index() int {
	return c.index
}

// Clamp moves the cursor to min(index, count-1), or 0 for an empty sequence
func (c *Cursor) Clamp(count int) {
	c.set(c.index, count)
}

// Up moves back by n, stopping at the first item
func (c *Cursor) Up(n, count int) {
	c.set(c.index-n, count)
}

// Down moves forward by n, stopping at the last item
func (c *Cursor) Down(n, count int) {
	c.set(c.index+n, count)
}

// Top moves to the first item
func (c *Cursor) Top(count int) {
	c.set(0, count)
}

// Bottom moves to the last item
func (c *Cursor) Bottom(count int) {
	c.set(count-1, count)
}

// Reset moves back to the first item regardless of count
func (c *Cursor) Reset() {
	c.index = 0
}

func (c *Cursor) set(index, count int) {
	last := count - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	c.index = index
}

// halfPage is the page step for a viewport: half its height, at least one line
func halfPage(height int) int {
	if step := height / 2; step > 0 {
		return step
	}
	return 1
}
