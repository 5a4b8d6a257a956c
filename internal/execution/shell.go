package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

const terminalTitle = "pytexp"

var (
	// ErrUnsupportedOS is returned on platforms without a terminal integration
	ErrUnsupportedOS = errors.New("not implemented for your os")
	// ErrUnsupportedTerminal is returned when no known terminal emulator is installed
	ErrUnsupportedTerminal = errors.New("not implemented for your terminal")
)

// Shell hands commands to a new terminal window or editor and does not wait for them
type Shell struct {
	runner *Runner
	exec   Executor
	goos   string
	lookup func(key string) (string, bool)
}

// NewShell creates a Shell for the current platform
func NewShell(runner *Runner) *Shell {
	return &Shell{
		runner: runner,
		exec:   SystemExecutor,
		goos:   runtime.GOOS,
		lookup: os.LookupEnv,
	}
}

// RunInShell runs the entity in a new terminal window
func (s *Shell) RunInShell(fullPath string) error {
	return s.dispatch(s.runner.ShellCommand(fullPath))
}

// OpenInEditor opens file at line in the user's editor
func (s *Shell) OpenInEditor(file string, line int) error {
	switch s.goos {
	case "linux":
		editor, err := s.env(EditorVar)
		if err != nil {
			return err
		}
		return s.dispatch(EditorCommand(editor, file, line))
	case "darwin":
		return s.start(Command{Name: "open", Args: []string{"-t", file}, Dir: s.projectDir()})
	default:
		return ErrUnsupportedOS
	}
}

func (s *Shell) dispatch(command string) error {
	switch s.goos {
	case "linux":
		return s.gnomeTerminal(command)
	case "darwin":
		return s.appleTerminal(command)
	default:
		return ErrUnsupportedOS
	}
}

func (s *Shell) gnomeTerminal(command string) error {
	if _, err := s.exec(context.Background(), Command{Name: "gnome-terminal", Args: []string{"--version"}}); err != nil {
		return ErrUnsupportedTerminal
	}
	shell, err := s.env("SHELL")
	if err != nil {
		return err
	}

	// the window stays open on an interactive shell after the command exits
	line := command + "; exec " + shellquote.Join(shell)
	dir := s.projectDir()
	return s.start(Command{
		Name: "gnome-terminal",
		Args: []string{"--title=" + terminalTitle, "--working-directory=" + dir, "--", shell, "-c", line},
		Dir:  dir,
	})
}

func (s *Shell) appleTerminal(command string) error {
	venv, err := s.env("VIRTUAL_ENV")
	if err != nil {
		return err
	}

	line := fmt.Sprintf("cd %s && %s/bin/%s", shellquote.Join(s.projectDir()), shellquote.Join(venv), command)
	script := fmt.Sprintf(`tell application "Terminal" to do script "%s"`, appleScriptEscape(line))
	return s.start(Command{Name: "osascript", Args: []string{"-e", script}})
}

// start runs a launcher command and turns anything it reports on stderr into an error
func (s *Shell) start(cmd Command) error {
	result, err := s.exec(context.Background(), cmd)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}
	if msg := strings.TrimSpace(string(result.Stderr)); msg != "" {
		return errors.New(msg)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s exited with code %d", cmd.Name, result.ExitCode)
	}
	return nil
}

// projectDir is where full paths resolve: the absolute project path
func (s *Shell) projectDir() string {
	dir := s.runner.config.ProjectPath
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func (s *Shell) env(key string) (string, error) {
	value, ok := s.lookup(key)
	if !ok || value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
