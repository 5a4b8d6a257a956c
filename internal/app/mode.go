package app

// Mode is the active input mode. Exactly one mode is active at a time.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeOutputScrolling
	ModeFilterEditing
	ModeErrorDisplay
)

func (m Mode) String() string {
	switch m {
	case ModeBrowsing:
		return "browsing"
	case ModeOutputScrolling:
		return "output"
	case ModeFilterEditing:
		return "filter"
	case ModeErrorDisplay:
		return "error"
	default:
		return "unknown"
	}
}

// Command is what a key means in the active mode
type Command int

const (
	CmdNone Command = iota
	CmdQuit
	CmdFilter
	CmdActivateOutput
	CmdActivateTests
	CmdUp
	CmdDown
	CmdPageUp
	CmdPageDown
	CmdTop
	CmdBottom
	CmdRun
	CmdRunInShell
	CmdOpenEditor
	CmdInput
	CmdDeleteChar
	CmdCommit
	CmdDismiss
)

// KeyCode identifies a key independent of the terminal library
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyTab
	KeyOther
)

// Key is one key press. Rune is set for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// RuneKey returns the key press for a printable character
func RuneKey(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// keymap resolves special keys and runes to commands for one mode
type keymap struct {
	keys  map[KeyCode]Command
	runes map[rune]Command
	// text routes unmapped runes to CmdInput
	text bool
}

func (k keymap) resolve(key Key) Command {
	if key.Code == KeyRune {
		if cmd, ok := k.runes[key.Rune]; ok {
			return cmd
		}
		if k.text {
			return CmdInput
		}
		return CmdNone
	}
	return k.keys[key.Code]
}

var keymaps = map[Mode]keymap{
	ModeBrowsing: {
		keys: map[KeyCode]Command{
			KeyUp:       CmdUp,
			KeyDown:     CmdDown,
			KeyPageUp:   CmdPageUp,
			KeyPageDown: CmdPageDown,
			KeyHome:     CmdTop,
			KeyEnd:      CmdBottom,
			KeyEnter:    CmdRun,
		},
		runes: map[rune]Command{
			'q': CmdQuit,
			'f': CmdFilter,
			'/': CmdFilter,
			'2': CmdActivateOutput,
			'k': CmdUp,
			'j': CmdDown,
			'g': CmdTop,
			'G': CmdBottom,
			'r': CmdRunInShell,
			'o': CmdOpenEditor,
		},
	},
	ModeOutputScrolling: {
		keys: map[KeyCode]Command{
			KeyUp:       CmdUp,
			KeyDown:     CmdDown,
			KeyPageUp:   CmdPageUp,
			KeyPageDown: CmdPageDown,
			KeyHome:     CmdTop,
			KeyEnd:      CmdBottom,
		},
		runes: map[rune]Command{
			'1': CmdActivateTests,
			'k': CmdUp,
			'j': CmdDown,
			'g': CmdTop,
			'G': CmdBottom,
		},
	},
	ModeFilterEditing: {
		keys: map[KeyCode]Command{
			KeyBackspace: CmdDeleteChar,
			KeyEsc:       CmdCommit,
			KeyEnter:     CmdCommit,
			KeyUp:        CmdCommit,
			KeyDown:      CmdCommit,
		},
		text: true,
	},
	ModeErrorDisplay: {
		keys: map[KeyCode]Command{
			KeyEsc:   CmdDismiss,
			KeyEnter: CmdDismiss,
		},
		runes: map[rune]Command{
			'q': CmdDismiss,
		},
	},
}

// Resolve returns the command a key triggers in mode, CmdNone when it does nothing
func Resolve(mode Mode, key Key) Command {
	return keymaps[mode].resolve(key)
}
