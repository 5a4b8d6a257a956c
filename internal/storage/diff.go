package storage

import "pytexp/internal/domain"

// Changes lists the full paths that differ between two snapshots, each in snapshot order
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether both snapshots hold the same paths
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the previous snapshot against the next one by full path
func Diff(prev, next *domain.Collection) Changes {
	before := paths(prev)
	after := paths(next)

	var changes Changes
	for _, test := range next.Tests {
		if !before[test.Path] {
			changes.Added = append(changes.Added, test.Path)
		}
	}
	for _, test := range prev.Tests {
		if !after[test.Path] {
			changes.Removed = append(changes.Removed, test.Path)
		}
	}
	return changes
}

func paths(collection *domain.Collection) map[string]bool {
	set := make(map[string]bool, len(collection.Tests))
	for _, test := range collection.Tests {
		set[test.Path] = true
	}
	return set
}
