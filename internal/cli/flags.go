package cli

import "pytexp/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	TestPath    string
	Strict      bool
	DebugLog    string
	JSONOutput  string
	Progress    bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath: f.ProjectPath,
		TestPath:    f.TestPath,
		Strict:      f.Strict,
		DebugLog:    f.DebugLog,
		JSONOutput:  f.JSONOutput,
		Progress:    f.Progress,
	}
}
