package execution

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// EditorVar is the environment variable naming the editor
const EditorVar = "EDITOR"

// EditorCommand builds a shell line that opens file at line with $EDITOR.
// The jump-to-line syntax is picked by matching the editor name; unknown editors just get the file.
func EditorCommand(editor, file string, line int) string {
	name := strings.ToLower(filepath.Base(editor))
	n := strconv.Itoa(line)

	var args []string
	switch {
	case strings.Contains(name, "hx"):
		args = []string{fmt.Sprintf("%s:%d", file, line)}
	case strings.Contains(name, "vi"):
		args = []string{file, "+" + n}
	case strings.Contains(name, "nano"):
		args = []string{"+" + n, file}
	case strings.Contains(name, "code"):
		args = []string{"-g", fmt.Sprintf("%s:%d", file, line)}
	case strings.Contains(name, "pycharm"):
		args = []string{"--line", n, file}
	default:
		args = []string{file}
	}
	return "$" + EditorVar + " " + shellquote.Join(args...)
}
