package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when the discovery root exists but is not a directory
var ErrNotDirectory = errors.New("test path is not a directory")

// Naming describes which files hold tests
type Naming struct {
	Ext    string // e.g. ".py"
	Prefix string // e.g. "test_"
	Suffix string // e.g. "_test.py"
}

// IsTestFile reports whether a file name follows the test file convention
func (n Naming) IsTestFile(name string) bool {
	if !strings.HasSuffix(name, n.Ext) {
		return false
	}
	return strings.HasSuffix(name, n.Suffix) || strings.HasPrefix(name, n.Prefix)
}

// Scanner scans for test files in a directory
type Scanner struct {
	naming   Naming
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given naming convention and directories to skip
func NewScanner(naming Naming, skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{naming: naming, skipDirs: skipMap}
}

// Scan finds all test files under root in lexical walk order.
// A missing root yields no files; entries that cannot be read are skipped.
func (s *Scanner) Scan(root string) ([]string, error) {
	var testfiles []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat test path %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		// Symlinks, sockets and other non-regular entries
		if !d.Type().IsRegular() {
			return nil
		}

		if s.naming.IsTestFile(d.Name()) {
			testfiles = append(testfiles, path)
		}
		return nil
	})

	return testfiles, err
}
