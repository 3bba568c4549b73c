package harness

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/testbootstrap/bootstrap-harness/framework"
	"github.com/testbootstrap/bootstrap-harness/framework/logconfig"
)

const (
	// DefaultResourceDir is where the test resources are looked up, relative to the working directory.
	DefaultResourceDir = "resources/"

	// LogConfigFileName is the logging configuration inside the resource directory.
	LogConfigFileName = "log4cxx.xml"

	// EnvFileName is an optional file of variables for ${NAME} expansion in the logging configuration.
	EnvFileName = ".env"
)

var (
	ErrAlreadySetUp = errors.New("test environment has already been set up")
	ErrNotSetUp     = errors.New("test environment has not been set up")
	ErrTornDown     = errors.New("test environment has already been torn down")
)

type environmentState int

const (
	stateCreated environmentState = iota
	stateSetUp
	stateTornDown
)

// TestEnvironment is the process-wide environment of a unit test run. It is set up once before any
// test runs, which loads the logging configuration, and torn down once after the last test.
type TestEnvironment struct {
	resourceDir string
	debugLogger framework.Logger
	state       environmentState
	logConfig   *logconfig.Configuration
	options     logconfig.Options
}

// NewTestEnvironment creates an environment that reads its resources from resourceDir. The debug
// logger receives messages about the environment itself.
func NewTestEnvironment(resourceDir string, debugLogger framework.Logger) *TestEnvironment {
	if resourceDir == "" {
		resourceDir = DefaultResourceDir
	}
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	return &TestEnvironment{
		resourceDir: resourceDir,
		debugLogger: framework.LoggerWithPrefix(debugLogger, "[environment] "),
	}
}

// WithLogOptions sets the options used to apply the logging configuration. Vars are merged with
// the ones read from the .env file, which take precedence.
func (e *TestEnvironment) WithLogOptions(options logconfig.Options) *TestEnvironment {
	e.options = options
	return e
}

// ConfigPath returns the path of the logging configuration.
func (e *TestEnvironment) ConfigPath() string {
	return filepath.Join(e.resourceDir, LogConfigFileName)
}

// SetUp loads the logging configuration. A missing or invalid configuration is returned as a
// *logconfig.ConfigError; the run must not go on without it.
func (e *TestEnvironment) SetUp() error {
	switch e.state {
	case stateSetUp:
		return ErrAlreadySetUp
	case stateTornDown:
		return ErrTornDown
	}

	vars, err := e.readEnvFile()
	if err != nil {
		return err
	}
	options := e.options
	options.Vars = mergeVars(e.options.Vars, vars)

	e.debugLogger.Printf("loading logging configuration from %s", e.ConfigPath())
	config, err := logconfig.Load(e.ConfigPath(), options)
	if err != nil {
		return err
	}
	e.logConfig = config
	e.state = stateSetUp
	return nil
}

// TearDown flushes and closes the log files opened by the logging configuration.
func (e *TestEnvironment) TearDown() error {
	switch e.state {
	case stateCreated:
		return ErrNotSetUp
	case stateTornDown:
		return ErrTornDown
	}
	e.state = stateTornDown
	e.debugLogger.Println("closing log appenders")
	if err := e.logConfig.Close(); err != nil {
		return fmt.Errorf("cannot close log appenders: %w", err)
	}
	return nil
}

// Logger returns a named logger from the loaded configuration. Before SetUp it returns a logger
// that discards everything.
func (e *TestEnvironment) Logger(name string) *logrus.Entry {
	if e.logConfig == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l.WithField(logconfig.LoggerField, name)
	}
	return e.logConfig.Logger(name)
}

func (e *TestEnvironment) readEnvFile() (map[string]string, error) {
	path := filepath.Join(e.resourceDir, EnvFileName)
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	e.debugLogger.Printf("read %d variables from %s", len(vars), path)
	return vars, nil
}

func mergeVars(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	ret := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		ret[k] = v
	}
	for k, v := range override {
		ret[k] = v
	}
	return ret
}
