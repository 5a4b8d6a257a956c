package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"pytexp/internal/app"
	"pytexp/internal/discovery"
	"pytexp/internal/domain"
)

const (
	pageMain    = "main"
	pageLoading = "loading"
	pageError   = "error"
)

var helpText = map[app.Mode]string{
	app.ModeBrowsing:        " [yellow]↑↓/jk[white] move  [yellow]Enter[white] run  [yellow]r[white] run in shell  [yellow]o[white] open in editor  [yellow]f[white] filter  [yellow]2[white] output  [yellow]q[white] quit ",
	app.ModeOutputScrolling: " [yellow]↑↓/jk[white] scroll  [yellow]PgUp/PgDn[white] half page  [yellow]g/G[white] top/bottom  [yellow]1[white] back to tests ",
	app.ModeFilterEditing:   " type to filter, space separates terms  [yellow]Backspace[white] delete  [yellow]Enter/Esc[white] done ",
	app.ModeErrorDisplay:    " [yellow]Enter/Esc/q[white] dismiss ",
}

// Browser is the interactive test explorer. It draws the App state and feeds it key presses.
type Browser struct {
	explorer *app.App
	tui      *tview.Application
	pages    *tview.Pages
	list     *tview.Box
	filter   *tview.TextView
	output   *tview.TextView
	help     *tview.TextView
	loading  *tview.Modal
	failure  *tview.Modal

	shownOutput string
}

// NewBrowser creates a Browser over explorer and installs its render function
func NewBrowser(explorer *app.App) *Browser {
	b := &Browser{
		explorer: explorer,
		tui:      tview.NewApplication(),
		pages:    tview.NewPages(),
	}

	b.list = tview.NewBox().SetBorder(true)
	b.list.SetDrawFunc(b.drawList)

	b.filter = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	b.filter.SetBorder(true).SetTitle(" Filter ")

	b.output = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetScrollable(true)
	b.output.SetBorder(true)

	b.help = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	b.loading = tview.NewModal()
	b.failure = tview.NewModal().
		SetBackgroundColor(tcell.ColorDarkRed)

	left := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.filter, 3, 0, false).
		AddItem(b.list, 0, 1, false)

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, false).
		AddItem(b.output, 0, 2, false)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, false).
		AddItem(b.help, 1, 0, false)

	b.pages.
		AddPage(pageMain, layout, true, true).
		AddPage(pageLoading, b.loading, true, false).
		AddPage(pageError, b.failure, true, false)

	b.tui.SetRoot(b.pages, true).SetInputCapture(b.handleKey)

	explorer.SetRenderFunc(func() {
		b.sync()
		b.tui.ForceDraw()
	})
	b.sync()
	return b
}

// Run blocks until the user quits
func (b *Browser) Run() error {
	if err := b.tui.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// handleKey routes every key press to the state machine. Ctrl+C falls through so tview stops.
func (b *Browser) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		return event
	}

	_, _, _, listHeight := b.list.GetInnerRect()
	_, _, _, outputHeight := b.output.GetInnerRect()
	b.explorer.SetViewport(listHeight, outputHeight)

	if b.explorer.Handle(TranslateKey(event)) {
		b.tui.Stop()
		return nil
	}
	b.sync()
	return nil
}

// sync copies the App state into the widgets. It must not run inside a draw.
func (b *Browser) sync() {
	state := b.explorer.State()
	view := b.explorer.View()

	b.list.SetTitle(fmt.Sprintf(" Tests %d/%d ", view.Count(), view.Total()))

	input := tview.Escape(state.Input)
	if state.Mode == app.ModeFilterEditing {
		input += "[yellow]▏[-]"
	}
	b.filter.SetText(input)

	if state.Output != b.shownOutput {
		b.output.SetText(tview.TranslateANSI(tview.Escape(state.Output)))
		b.shownOutput = state.Output
	}
	b.output.ScrollTo(state.OutputScroll.Index(), 0)
	b.output.SetTitle(outputTitle(state))

	active := map[app.Mode]*tview.Box{
		app.ModeBrowsing:        b.list,
		app.ModeFilterEditing:   b.filter.Box,
		app.ModeOutputScrolling: b.output.Box,
	}
	for _, box := range []*tview.Box{b.list, b.filter.Box, b.output.Box} {
		box.SetBorderColor(tview.Styles.BorderColor)
	}
	if box, ok := active[state.Mode]; ok {
		box.SetBorderColor(tcell.ColorYellow)
	}

	b.help.SetText(helpText[state.Mode])

	if state.Loading {
		b.loading.SetText(fmt.Sprintf("Running\n%s", tview.Escape(b.selectedPath())))
		b.pages.ShowPage(pageLoading)
	} else {
		b.pages.HidePage(pageLoading)
	}

	if state.Mode == app.ModeErrorDisplay {
		b.failure.SetText(tview.Escape(state.ErrorMessage))
		b.pages.ShowPage(pageError)
	} else {
		b.pages.HidePage(pageError)
	}
}

func (b *Browser) selectedPath() string {
	e, ok := b.explorer.Selected()
	if !ok {
		return ""
	}
	return b.explorer.View().FullPath(e)
}

func outputTitle(state app.State) string {
	if !state.Summary.Found {
		return " Output "
	}
	color := "green"
	if !state.Summary.OK() {
		color = "red"
	}
	return fmt.Sprintf(" Output [%s]%s[-] ", color, tview.Escape(state.Summary.String()))
}

// drawList draws the visible window of the filtered view with the cursor row highlighted
func (b *Browser) drawList(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	x, y, width, height = x+1, y+1, max(width-2, 0), max(height-2, 0)
	if width == 0 || height == 0 {
		return x, y, width, height
	}

	view := b.explorer.View()
	cursor := b.explorer.State().ListCursor.Index()
	start := windowStart(cursor, view.Count(), height)

	for i, e := range view.Window(start, height) {
		row := y + i
		if start+i == cursor {
			selected := tcell.StyleDefault.Background(tcell.ColorDarkCyan)
			for col := x; col < x+width; col++ {
				screen.SetContent(col, row, ' ', nil, selected)
			}
		}
		tview.Print(screen, entityLine(view, e), x, row, width, tview.AlignLeft, tcell.ColorWhite)
	}
	return x, y, width, height
}

func entityLine(view discovery.View, e domain.Entity) string {
	path := tview.Escape(view.FullPath(e))
	if e.Kind == domain.KindClass {
		return "[aqua]" + path + "[-]"
	}
	return path
}

// windowStart returns the first visible row so that the cursor stays centred where possible
func windowStart(cursor, count, height int) int {
	if height <= 0 || count <= height {
		return 0
	}
	start := cursor - height/2
	return max(0, min(start, count-height))
}

// TranslateKey maps a terminal key event to a key press the state machine understands
func TranslateKey(event *tcell.EventKey) app.Key {
	switch event.Key() {
	case tcell.KeyRune:
		return app.RuneKey(event.Rune())
	case tcell.KeyUp:
		return app.Key{Code: app.KeyUp}
	case tcell.KeyDown:
		return app.Key{Code: app.KeyDown}
	case tcell.KeyLeft:
		return app.Key{Code: app.KeyLeft}
	case tcell.KeyRight:
		return app.Key{Code: app.KeyRight}
	case tcell.KeyPgUp:
		return app.Key{Code: app.KeyPageUp}
	case tcell.KeyPgDn:
		return app.Key{Code: app.KeyPageDown}
	case tcell.KeyHome:
		return app.Key{Code: app.KeyHome}
	case tcell.KeyEnd:
		return app.Key{Code: app.KeyEnd}
	case tcell.KeyEnter:
		return app.Key{Code: app.KeyEnter}
	case tcell.KeyEscape:
		return app.Key{Code: app.KeyEsc}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return app.Key{Code: app.KeyBackspace}
	case tcell.KeyTab:
		return app.Key{Code: app.KeyTab}
	default:
		return app.Key{Code: app.KeyOther}
	}
}
