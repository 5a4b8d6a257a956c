package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the directory test discovery starts from
	DefaultTestPath = "tests"
	// DefaultSourceExt is the extension of python source files
	DefaultSourceExt = ".py"
	// DefaultTestFilePrefix marks test files by prefix (test_foo.py)
	DefaultTestFilePrefix = "test_"
	// DefaultTestFileSuffix marks test files by suffix (foo_test.py)
	DefaultTestFileSuffix = "_test.py"
	// DefaultFunctionPrefix is the prefix of test functions and methods
	DefaultFunctionPrefix = "test_"
	// DefaultClassPrefix is the prefix of test classes
	DefaultClassPrefix = "Test"
	// DefaultRunner is the test runner binary
	DefaultRunner = "pytest"
	// DefaultEnvFile is loaded from the project path when present
	DefaultEnvFile = ".env"
)

// DefaultRunnerArgs are appended after the entity path
var DefaultRunnerArgs = []string{"-vvv", "-p", "no:warnings"}

// DefaultRunnerEnv is added to the runner environment
var DefaultRunnerEnv = []string{"PYTEST_ADDOPTS=--color=yes"}

// DefaultPathsToIgnore are directories never descended into when scanning for tests
var DefaultPathsToIgnore = []string{"__pycache__"}
