package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// RunnerEnvVar overrides the runner binary
const RunnerEnvVar = "PYTEXP_RUNNER"

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Naming conventions
	SourceExt      string
	TestFilePrefix string
	TestFileSuffix string
	FunctionPrefix string
	ClassPrefix    string

	// Runner settings
	Runner     string
	RunnerArgs []string
	RunnerEnv  []string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	TestPath    string
	Strict      bool
	DebugLog    string
	JSONOutput  string
	Progress    bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		SourceExt:      DefaultSourceExt,
		TestFilePrefix: DefaultTestFilePrefix,
		TestFileSuffix: DefaultTestFileSuffix,
		FunctionPrefix: DefaultFunctionPrefix,
		ClassPrefix:    DefaultClassPrefix,
		Runner:         DefaultRunner,
	}
	cfg.RunnerArgs = append([]string(nil), DefaultRunnerArgs...)
	cfg.RunnerEnv = append([]string(nil), DefaultRunnerEnv...)
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config, applies flags and loads the project's .env file
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply stores flags on the config and reloads the environment they point at
func (c *Config) Apply(flags Flags) {
	c.Flags = flags
	if flags.ProjectPath != "" {
		c.ProjectPath = flags.ProjectPath
	}
	c.LoadEnv()
}

// LoadEnv loads the project's .env file without overriding variables already set.
// A missing file is not an error.
func (c *Config) LoadEnv() {
	envPath := filepath.Join(c.ProjectPath, DefaultEnvFile)
	if err := godotenv.Load(envPath); err != nil {
		_ = err
	}
	if runner := os.Getenv(RunnerEnvVar); runner != "" {
		c.Runner = runner
	}
}

// GetTestPath returns the discovery root, using the flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	return filepath.Join(c.ProjectPath, c.TestPath)
}

// RelativeToProject rewrites path relative to the project path, which is where the runner executes.
// Paths outside the project are returned unchanged.
func (c *Config) RelativeToProject(path string) string {
	rel, err := filepath.Rel(c.ProjectPath, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

// GetOutputPath returns the absolute path of the collection snapshot file, or "" when not requested
func (c *Config) GetOutputPath() string {
	if c.Flags.JSONOutput == "" {
		return ""
	}
	p := c.Flags.JSONOutput
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.ProjectPath, p)
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetRunnerPath returns the runner binary, resolving a project-relative path
func (c *Config) GetRunnerPath() string {
	if filepath.IsAbs(c.Runner) || filepath.Base(c.Runner) == c.Runner {
		return c.Runner
	}
	return filepath.Join(c.ProjectPath, c.Runner)
}
