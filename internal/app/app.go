package app

import (
	"context"
	"io"
	"log"
	"strings"

	"pytexp/internal/discovery"
	"pytexp/internal/domain"
	"pytexp/internal/parser"
)

// Runner runs one entity through the test runner and waits for it to finish
type Runner interface {
	Run(ctx context.Context, fullPath string) (domain.RunOutput, error)
}

// Dispatcher hands a command to an external terminal or editor without waiting for it
type Dispatcher interface {
	RunInShell(fullPath string) error
	OpenInEditor(file string, line int) error
}

// State is everything the renderer needs to draw one frame
type State struct {
	Mode         Mode
	Input        string
	Output       string
	Summary      parser.Summary
	ListCursor   Cursor
	OutputScroll Cursor
	Loading      bool
	ErrorMessage string
}

// transition handles a command in the active mode and returns the next mode
type transition func(a *App, cmd Command, key Key) Mode

// transitions lists every handled (mode, command) pair. Anything missing is a no-op.
var transitions = map[Mode]map[Command]transition{
	ModeBrowsing: {
		CmdActivateOutput: (*App).enterOutput,
		CmdFilter:         (*App).enterFilter,
		CmdQuit:           (*App).quit,
		CmdUp:             (*App).navigate,
		CmdDown:           (*App).navigate,
		CmdPageUp:         (*App).navigate,
		CmdPageDown:       (*App).navigate,
		CmdTop:            (*App).navigate,
		CmdBottom:         (*App).navigate,
		CmdRun:            (*App).run,
		CmdRunInShell:     (*App).runInShell,
		CmdOpenEditor:     (*App).openInEditor,
	},
	ModeFilterEditing: {
		CmdInput:      (*App).editFilter,
		CmdDeleteChar: (*App).editFilter,
		CmdCommit:     (*App).commitFilter,
	},
	ModeOutputScrolling: {
		CmdActivateTests: (*App).leaveOutput,
		CmdUp:            (*App).scroll,
		CmdDown:          (*App).scroll,
		CmdPageUp:        (*App).scroll,
		CmdPageDown:      (*App).scroll,
		CmdTop:           (*App).scroll,
		CmdBottom:        (*App).scroll,
	},
	ModeErrorDisplay: {
		CmdDismiss: (*App).dismissError,
	},
}

// App is the interactive state machine. It is driven by a single event loop and is not safe for concurrent use.
type App struct {
	state      State
	engine     *discovery.Engine
	view       discovery.View
	runner     Runner
	dispatcher Dispatcher
	render     func()
	logger     *log.Logger

	listHeight   int
	outputHeight int
	outputLines  int
	done         bool
}

// New creates an App in browsing mode over the engine's tree, with an empty filter
func New(engine *discovery.Engine, runner Runner, dispatcher Dispatcher) *App {
	a := &App{
		engine:     engine,
		runner:     runner,
		dispatcher: dispatcher,
		render:     func() {},
		logger:     log.New(io.Discard, "", 0),
	}
	a.view = engine.View(a.state.Input)
	return a
}

// SetRenderFunc sets the function that forces a frame to be drawn
func (a *App) SetRenderFunc(render func()) {
	if render != nil {
		a.render = render
	}
}

// SetLogger sets the diagnostics logger
func (a *App) SetLogger(logger *log.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// SetViewport records the visible heights of the test list and the output pane
func (a *App) SetViewport(listHeight, outputHeight int) {
	a.listHeight = listHeight
	a.outputHeight = outputHeight
}

// State returns a copy of the current state
func (a *App) State() State {
	return a.state
}

// View returns the current filtered view
func (a *App) View() discovery.View {
	return a.view
}

// Done reports whether the quit command was handled
func (a *App) Done() bool {
	return a.done
}

// Selected returns the entity under the list cursor
func (a *App) Selected() (domain.Entity, bool) {
	return a.view.At(a.state.ListCursor.Index())
}

// Handle processes one key press and reports whether the application should exit
func (a *App) Handle(key Key) bool {
	mode := a.state.Mode
	cmd := Resolve(mode, key)
	if fn, ok := transitions[mode][cmd]; ok {
		a.state.Mode = fn(a, cmd, key)
	}
	return a.done
}

func (a *App) enterOutput(Command, Key) Mode {
	return ModeOutputScrolling
}

func (a *App) leaveOutput(Command, Key) Mode {
	a.state.OutputScroll.Reset()
	return ModeBrowsing
}

func (a *App) enterFilter(Command, Key) Mode {
	return ModeFilterEditing
}

func (a *App) commitFilter(Command, Key) Mode {
	return ModeBrowsing
}

func (a *App) quit(Command, Key) Mode {
	a.done = true
	return ModeBrowsing
}

func (a *App) dismissError(Command, Key) Mode {
	a.state.ErrorMessage = ""
	return ModeBrowsing
}

// editFilter mutates the input buffer, then recomputes the view and re-clamps the cursor
func (a *App) editFilter(cmd Command, key Key) Mode {
	switch cmd {
	case CmdInput:
		a.state.Input += string(key.Rune)
	case CmdDeleteChar:
		if a.state.Input != "" {
			runes := []rune(a.state.Input)
			a.state.Input = string(runes[:len(runes)-1])
		}
	}
	a.refilter()
	return ModeFilterEditing
}

func (a *App) refilter() {
	a.view = a.engine.View(a.state.Input)
	a.state.ListCursor.Clamp(a.view.Count())
}

func (a *App) navigate(cmd Command, _ Key) Mode {
	move(&a.state.ListCursor, cmd, a.view.Count(), a.listHeight)
	return ModeBrowsing
}

func (a *App) scroll(cmd Command, _ Key) Mode {
	move(&a.state.OutputScroll, cmd, a.outputLines, a.outputHeight)
	return ModeOutputScrolling
}

func move(c *Cursor, cmd Command, count, height int) {
	switch cmd {
	case CmdUp:
		c.Up(1, count)
	case CmdDown:
		c.Down(1, count)
	case CmdPageUp:
		c.Up(halfPage(height), count)
	case CmdPageDown:
		c.Down(halfPage(height), count)
	case CmdTop:
		c.Top(count)
	case CmdBottom:
		c.Bottom(count)
	}
}

// run executes the selected entity and blocks until the runner exits.
// The loading frame is drawn before the call because nothing redraws during it.
func (a *App) run(Command, Key) Mode {
	selected, ok := a.Selected()
	if !ok {
		return ModeBrowsing
	}
	fullPath := a.view.FullPath(selected)

	a.state.Loading = true
	a.render()
	output, err := a.runner.Run(context.Background(), fullPath)
	a.state.Loading = false
	if err != nil {
		a.logger.Printf("run %s: %v", fullPath, err)
		return a.fail(err)
	}

	a.logger.Printf("run %s: exit %d in %s", fullPath, output.ExitCode, output.Duration)
	a.setOutput(output.Text())
	a.state.Summary = parser.ParseSummary(output.Stdout)
	return ModeBrowsing
}

func (a *App) runInShell(Command, Key) Mode {
	selected, ok := a.Selected()
	if !ok {
		return ModeBrowsing
	}
	if err := a.dispatcher.RunInShell(a.view.FullPath(selected)); err != nil {
		return a.fail(err)
	}
	return ModeBrowsing
}

func (a *App) openInEditor(Command, Key) Mode {
	selected, ok := a.Selected()
	if !ok {
		return ModeBrowsing
	}
	if err := a.dispatcher.OpenInEditor(a.view.File(selected), selected.Line); err != nil {
		return a.fail(err)
	}
	return ModeBrowsing
}

// fail routes an external-command error to the error modal
func (a *App) fail(err error) Mode {
	a.state.ErrorMessage = err.Error()
	return ModeErrorDisplay
}

func (a *App) setOutput(text string) {
	a.state.Output = text
	a.outputLines = countLines(text)
	a.state.OutputScroll.Reset()
}

func countLines(text string) int {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
