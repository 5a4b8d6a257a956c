package app

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pytexp/internal/discovery"
	"pytexp/internal/domain"
)

type fakeRunner struct {
	calls  []string
	output domain.RunOutput
	err    error
	onRun  func()
}

func (r *fakeRunner) Run(_ context.Context, fullPath string) (domain.RunOutput, error) {
	r.calls = append(r.calls, fullPath)
	if r.onRun != nil {
		r.onRun()
	}
	return r.output, r.err
}

type fakeDispatcher struct {
	shell    []string
	editor   []string
	lines    []int
	shellErr error
	editErr  error
}

func (d *fakeDispatcher) RunInShell(fullPath string) error {
	d.shell = append(d.shell, fullPath)
	return d.shellErr
}

func (d *fakeDispatcher) OpenInEditor(file string, line int) error {
	d.editor = append(d.editor, file)
	d.lines = append(d.lines, line)
	return d.editErr
}

func testTree(t *testing.T) *discovery.Tree {
	t.Helper()
	tree := discovery.NewTree()
	require.NoError(t, tree.AddFile("tests/test_base_protocol.py", []discovery.Declaration{
		{Name: "test_pause_reading_stub_transport", Kind: domain.KindFunction, Line: 5, Parent: -1},
		{Name: "test_resume_reading", Kind: domain.KindFunction, Line: 12, Parent: -1},
		{Name: "TestProtocol", Kind: domain.KindClass, Line: 20, Parent: -1},
		{Name: "test_connection_made", Kind: domain.KindFunction, Line: 21, Parent: 2},
	}))
	require.NoError(t, tree.AddFile("tests/test_client.py", []discovery.Declaration{
		{Name: "test_get", Kind: domain.KindFunction, Line: 3, Parent: -1},
		{Name: "test_post", Kind: domain.KindFunction, Line: 9, Parent: -1},
	}))
	return tree
}

func newTestApp(t *testing.T, tree *discovery.Tree) (*App, *fakeRunner, *fakeDispatcher) {
	t.Helper()
	engine, err := discovery.NewEngine(tree, 0)
	require.NoError(t, err)
	runner := &fakeRunner{}
	dispatcher := &fakeDispatcher{}
	a := New(engine, runner, dispatcher)
	a.SetViewport(10, 10)
	return a, runner, dispatcher
}

func press(a *App, keys ...Key) {
	for _, k := range keys {
		a.Handle(k)
	}
}

func typeText(a *App, text string) {
	for _, r := range text {
		a.Handle(RuneKey(r))
	}
}

var (
	up        = Key{Code: KeyUp}
	down      = Key{Code: KeyDown}
	pageDown  = Key{Code: KeyPageDown}
	pageUp    = Key{Code: KeyPageUp}
	home      = Key{Code: KeyHome}
	end       = Key{Code: KeyEnd}
	enter     = Key{Code: KeyEnter}
	esc       = Key{Code: KeyEsc}
	backspace = Key{Code: KeyBackspace}
)

func TestApp_InitialState(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	state := a.State()
	assert.Equal(t, ModeBrowsing, state.Mode)
	assert.Equal(t, 0, state.ListCursor.Index())
	assert.Equal(t, 6, a.View().Count())
	assert.False(t, a.Done())
}

func TestApp_ModeTransitions(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, RuneKey('2'))
	assert.Equal(t, ModeOutputScrolling, a.State().Mode)

	// quit and filter are not handled while scrolling output
	press(a, RuneKey('q'), RuneKey('f'))
	assert.Equal(t, ModeOutputScrolling, a.State().Mode)
	assert.False(t, a.Done())

	press(a, RuneKey('1'))
	assert.Equal(t, ModeBrowsing, a.State().Mode)

	press(a, RuneKey('f'))
	assert.Equal(t, ModeFilterEditing, a.State().Mode)

	for _, commit := range []Key{esc, enter, up, down} {
		press(a, RuneKey('f'))
		require.Equal(t, ModeFilterEditing, a.State().Mode)
		press(a, commit)
		assert.Equal(t, ModeBrowsing, a.State().Mode)
	}

	assert.True(t, a.Handle(RuneKey('q')))
	assert.True(t, a.Done())
}

func TestApp_Navigation(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, down, down)
	assert.Equal(t, 2, a.State().ListCursor.Index())

	press(a, RuneKey('k'))
	assert.Equal(t, 1, a.State().ListCursor.Index())

	press(a, end)
	assert.Equal(t, 5, a.State().ListCursor.Index())
	press(a, down)
	assert.Equal(t, 5, a.State().ListCursor.Index())

	press(a, home)
	assert.Equal(t, 0, a.State().ListCursor.Index())
	press(a, up)
	assert.Equal(t, 0, a.State().ListCursor.Index())

	// half of a 4 line viewport
	a.SetViewport(4, 4)
	press(a, pageDown)
	assert.Equal(t, 2, a.State().ListCursor.Index())
	press(a, pageDown, pageDown)
	assert.Equal(t, 5, a.State().ListCursor.Index())
	press(a, pageUp)
	assert.Equal(t, 3, a.State().ListCursor.Index())

	selected, ok := a.Selected()
	require.True(t, ok)
	assert.Equal(t, "test_connection_made", selected.Name)
}

func TestApp_FilterEditing(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, RuneKey('f'))
	typeText(a, "stub base_protocol")
	assert.Equal(t, "stub base_protocol", a.State().Input)
	assert.Equal(t, 1, a.View().Count())

	for range " base_protocol" {
		press(a, backspace)
	}
	assert.Equal(t, "stub", a.State().Input)

	// runes that are commands elsewhere are text here
	typeText(a, "q2jk")
	assert.Equal(t, "stubq2jk", a.State().Input)
	assert.Equal(t, ModeFilterEditing, a.State().Mode)
	assert.False(t, a.Done())
	assert.Zero(t, a.View().Count())

	for range "stubq2jk" {
		press(a, backspace)
	}
	assert.Equal(t, "", a.State().Input)
	assert.Equal(t, 6, a.View().Count())
	press(a, backspace)
	assert.Equal(t, "", a.State().Input)
}

func TestApp_FilterRecomputesAfterEachCharacter(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, RuneKey('f'))
	typeText(a, "test_c")
	// tests/test_client.py entries and test_connection_made
	assert.Equal(t, 3, a.View().Count())
	typeText(a, "l")
	assert.Equal(t, 2, a.View().Count())
}

func TestApp_FilterKeepsCursor(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, down)
	assert.Equal(t, 1, a.State().ListCursor.Index())

	// still in range: cursor is not reset
	press(a, RuneKey('f'))
	typeText(a, "base")
	assert.Equal(t, 4, a.View().Count())
	assert.Equal(t, 1, a.State().ListCursor.Index())
	press(a, esc)

	press(a, end)
	assert.Equal(t, 3, a.State().ListCursor.Index())

	// shrinking view clamps to the last item
	press(a, RuneKey('f'))
	typeText(a, " stub")
	assert.Equal(t, 1, a.View().Count())
	assert.Equal(t, 0, a.State().ListCursor.Index())

	// empty view keeps the inert cursor
	typeText(a, "x")
	assert.Zero(t, a.View().Count())
	assert.Equal(t, 0, a.State().ListCursor.Index())
	press(a, esc, down, up, end, pageDown)
	assert.Equal(t, 0, a.State().ListCursor.Index())
}

func TestApp_FilterIdempotent(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, down, down, RuneKey('f'))
	typeText(a, "test")
	count, cursor := a.View().Count(), a.State().ListCursor.Index()

	a.refilter()
	assert.Equal(t, count, a.View().Count())
	assert.Equal(t, cursor, a.State().ListCursor.Index())
}

func TestApp_Run(t *testing.T) {
	a, runner, _ := newTestApp(t, testTree(t))

	var loadingAtRender, loadingAtRun bool
	renders := 0
	a.SetRenderFunc(func() {
		renders++
		loadingAtRender = a.State().Loading
	})
	runner.onRun = func() {
		loadingAtRun = a.State().Loading
	}
	runner.output = domain.RunOutput{
		Stdout: "line 1\nline 2\nline 3\n=== 1 passed in 0.01s ===\n",
		Stderr: "ignored",
	}

	press(a, down, down, down, enter)

	require.Equal(t, []string{"tests/test_base_protocol.py::TestProtocol::test_connection_made"}, runner.calls)
	assert.Equal(t, 1, renders)
	assert.True(t, loadingAtRender)
	assert.True(t, loadingAtRun)

	state := a.State()
	assert.False(t, state.Loading)
	assert.Equal(t, ModeBrowsing, state.Mode)
	assert.Equal(t, runner.output.Stdout, state.Output)
	assert.True(t, state.Summary.OK())
	assert.Equal(t, 1, state.Summary.Passed)
}

func TestApp_RunFallsBackToStderr(t *testing.T) {
	a, runner, _ := newTestApp(t, testTree(t))
	runner.output = domain.RunOutput{Stderr: "ERROR: not found"}

	press(a, enter)

	assert.Equal(t, "ERROR: not found", a.State().Output)
	assert.False(t, a.State().Summary.Found)
}

func TestApp_RunFailureShowsError(t *testing.T) {
	a, runner, _ := newTestApp(t, testTree(t))
	runner.err = errors.New(`exec: "pytest": executable file not found in $PATH`)

	press(a, enter)

	state := a.State()
	assert.Equal(t, ModeErrorDisplay, state.Mode)
	assert.False(t, state.Loading)
	assert.Contains(t, state.ErrorMessage, "pytest")

	// everything but dismissal keys is ignored
	press(a, down, RuneKey('f'), RuneKey('2'))
	assert.Equal(t, ModeErrorDisplay, a.State().Mode)
	assert.Equal(t, 0, a.State().ListCursor.Index())

	press(a, RuneKey('q'))
	assert.Equal(t, ModeBrowsing, a.State().Mode)
	assert.Empty(t, a.State().ErrorMessage)
	assert.False(t, a.Done())
}

func TestApp_RunOnEmptyView(t *testing.T) {
	a, runner, dispatcher := newTestApp(t, discovery.NewTree())

	assert.Zero(t, a.View().Count())
	press(a, down, enter, RuneKey('r'), RuneKey('o'))

	assert.Empty(t, runner.calls)
	assert.Empty(t, dispatcher.shell)
	assert.Empty(t, dispatcher.editor)
	assert.Equal(t, 0, a.State().ListCursor.Index())
	assert.Equal(t, ModeBrowsing, a.State().Mode)
	_, ok := a.Selected()
	assert.False(t, ok)
}

func TestApp_ShellAndEditor(t *testing.T) {
	a, _, dispatcher := newTestApp(t, testTree(t))

	press(a, end, RuneKey('r'))
	assert.Equal(t, []string{"tests/test_client.py::test_post"}, dispatcher.shell)
	assert.Equal(t, ModeBrowsing, a.State().Mode)

	press(a, RuneKey('o'))
	assert.Equal(t, []string{"tests/test_client.py"}, dispatcher.editor)
	assert.Equal(t, []int{9}, dispatcher.lines)

	dispatcher.editErr = errors.New("EDITOR is not set")
	press(a, RuneKey('o'))
	assert.Equal(t, ModeErrorDisplay, a.State().Mode)
	assert.Equal(t, "EDITOR is not set", a.State().ErrorMessage)
	press(a, esc)

	dispatcher.shellErr = errors.New("terminal not supported")
	press(a, RuneKey('r'))
	assert.Equal(t, ModeErrorDisplay, a.State().Mode)
	press(a, enter)
	assert.Equal(t, ModeBrowsing, a.State().Mode)
}

func TestApp_OutputScrolling(t *testing.T) {
	a, runner, _ := newTestApp(t, testTree(t))
	runner.output = domain.RunOutput{Stdout: "1\n2\n3\n4\n5\n6\n7\n8\n"}
	a.SetViewport(10, 4)

	press(a, enter, RuneKey('2'))
	require.Equal(t, ModeOutputScrolling, a.State().Mode)

	press(a, down, down)
	assert.Equal(t, 2, a.State().OutputScroll.Index())
	// the list cursor does not move while scrolling output
	assert.Equal(t, 0, a.State().ListCursor.Index())

	press(a, pageDown)
	assert.Equal(t, 4, a.State().OutputScroll.Index())
	press(a, end)
	assert.Equal(t, 7, a.State().OutputScroll.Index())
	press(a, down)
	assert.Equal(t, 7, a.State().OutputScroll.Index())
	press(a, home, up)
	assert.Equal(t, 0, a.State().OutputScroll.Index())

	press(a, RuneKey('j'), RuneKey('1'))
	assert.Equal(t, ModeBrowsing, a.State().Mode)
	assert.Equal(t, 0, a.State().OutputScroll.Index())
}

func TestApp_OutputScrollingWithoutOutput(t *testing.T) {
	a, _, _ := newTestApp(t, testTree(t))

	press(a, RuneKey('2'), down, pageDown, end)
	assert.Equal(t, 0, a.State().OutputScroll.Index())
}

func TestApp_RandomSequencesKeepCursorInBounds(t *testing.T) {
	keys := []Key{
		up, down, pageUp, pageDown, home, end, esc, backspace,
		RuneKey('f'), RuneKey('1'), RuneKey('2'), RuneKey('j'), RuneKey('k'),
		RuneKey('t'), RuneKey('_'), RuneKey('c'), RuneKey('x'), RuneKey(' '), RuneKey('.'),
	}
	trees := map[string]*discovery.Tree{
		"populated": testTree(t),
		"empty":     discovery.NewTree(),
	}

	for name, tree := range trees {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			a, _, _ := newTestApp(t, tree)
			for i := 0; i < 2000; i++ {
				a.Handle(keys[rng.Intn(len(keys))])
				count := a.View().Count()
				cursor := a.State().ListCursor.Index()
				require.GreaterOrEqual(t, cursor, 0)
				require.LessOrEqual(t, cursor, max(0, count-1))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		mode     Mode
		key      Key
		expected Command
	}{
		{ModeBrowsing, RuneKey('q'), CmdQuit},
		{ModeBrowsing, RuneKey('/'), CmdFilter},
		{ModeBrowsing, enter, CmdRun},
		{ModeBrowsing, RuneKey('r'), CmdRunInShell},
		{ModeBrowsing, RuneKey('o'), CmdOpenEditor},
		{ModeBrowsing, RuneKey('z'), CmdNone},
		{ModeBrowsing, esc, CmdNone},
		{ModeFilterEditing, RuneKey('q'), CmdInput},
		{ModeFilterEditing, backspace, CmdDeleteChar},
		{ModeFilterEditing, Key{Code: KeyTab}, CmdNone},
		{ModeOutputScrolling, RuneKey('1'), CmdActivateTests},
		{ModeOutputScrolling, RuneKey('q'), CmdNone},
		{ModeErrorDisplay, esc, CmdDismiss},
		{ModeErrorDisplay, RuneKey('x'), CmdNone},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(tt.mode, tt.key))
		})
	}
}
