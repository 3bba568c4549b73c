package logconfig

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const rootLoggerName = "root"

// Configuration holds the loggers built from one configuration document. Loggers keep writing to
// their appenders until Close is called.
type Configuration struct {
	root      *logrus.Logger
	loggers   map[string]*logrus.Logger
	appenders []*appender
}

type loggerDef struct {
	name       string
	level      level
	hasLevel   bool
	additive   bool
	appenders  []*appender
	resolved   bool
	effective  level
	allOutputs []*appender
}

func build(doc xmlConfiguration, opts Options) (c *Configuration, err error) {
	c = &Configuration{loggers: make(map[string]*logrus.Logger)}
	defer func() {
		if err != nil {
			_ = c.Close()
			c = nil
		}
	}()

	byName := make(map[string]*appender)
	for _, xa := range doc.Appenders {
		if _, dup := byName[xa.Name]; dup {
			return c, fmt.Errorf("appender %s is defined more than once", xa.Name)
		}
		a, err := buildAppender(xa, opts)
		if err != nil {
			return c, err
		}
		byName[xa.Name] = a
		c.appenders = append(c.appenders, a)
	}

	threshold := level{Level: logrus.TraceLevel}
	if doc.Threshold != "" {
		if threshold, err = parseLevel(expand(doc.Threshold, opts)); err != nil {
			return c, fmt.Errorf("configuration threshold: %w", err)
		}
	}

	rootDef := &loggerDef{name: rootLoggerName, level: level{Level: logrus.DebugLevel}, hasLevel: true}
	if doc.Root != nil {
		if err := rootDef.configure(*doc.Root, byName, opts); err != nil {
			return c, fmt.Errorf("root logger: %w", err)
		}
	}

	defs := make(map[string]*loggerDef)
	for _, xl := range doc.Loggers {
		if xl.Name == "" {
			return c, errors.New("logger without a name")
		}
		if _, dup := defs[xl.Name]; dup {
			return c, fmt.Errorf("logger %s is defined more than once", xl.Name)
		}
		def := &loggerDef{name: xl.Name, additive: true}
		if err := def.configure(xl, byName, opts); err != nil {
			return c, fmt.Errorf("logger %s: %w", xl.Name, err)
		}
		defs[xl.Name] = def
	}

	rootDef.resolve(nil)
	c.root = newLogger(rootDef, threshold)
	for name, def := range defs {
		resolveDef(def, defs, rootDef)
		c.loggers[name] = newLogger(def, threshold)
	}
	return c, nil
}

func (s *loggerDef) configure(x xmlLogger, appenders map[string]*appender, opts Options) error {
	if v, ok := x.levelValue(); ok {
		l, err := parseLevel(expand(v, opts))
		if err != nil {
			return err
		}
		s.level = l
		s.hasLevel = true
	}
	switch strings.ToLower(strings.TrimSpace(x.Additivity)) {
	case "", "true":
	case "false":
		s.additive = false
	default:
		return fmt.Errorf("additivity %q is not a boolean", x.Additivity)
	}
	for _, ref := range x.AppenderRefs {
		a, ok := appenders[ref.Ref]
		if !ok {
			return fmt.Errorf("reference to undefined appender %q", ref.Ref)
		}
		s.appenders = append(s.appenders, a)
	}
	return nil
}

// parentName returns the name of the closest ancestor in the dotted logger hierarchy that has
// its own definition, or "" for the root logger.
func parentName(name string, defs map[string]*loggerDef) string {
	for {
		i := strings.LastIndex(name, ".")
		if i < 0 {
			return ""
		}
		name = name[:i]
		if _, ok := defs[name]; ok {
			return name
		}
	}
}

func resolveDef(def *loggerDef, defs map[string]*loggerDef, root *loggerDef) {
	if def.resolved {
		return
	}
	parent := root
	if name := parentName(def.name, defs); name != "" {
		parent = defs[name]
		resolveDef(parent, defs, root)
	}
	def.resolve(parent)
}

func (s *loggerDef) resolve(parent *loggerDef) {
	s.effective = s.level
	if !s.hasLevel && parent != nil {
		s.effective = parent.effective
	}
	outputs := append([]*appender(nil), s.appenders...)
	if s.additive && parent != nil {
		outputs = append(outputs, parent.allOutputs...)
	}
	seen := make(map[*appender]bool)
	for _, a := range outputs {
		if !seen[a] {
			seen[a] = true
			s.allOutputs = append(s.allOutputs, a)
		}
	}
	s.resolved = true
}

func newLogger(def *loggerDef, threshold level) *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	effective := def.effective.capAt(threshold)
	l.SetLevel(effective.Level)
	if effective.off {
		return l
	}
	for _, a := range def.allOutputs {
		l.AddHook(a)
	}
	return l
}

// Logger returns the logger for name. Names are dotted paths; a name without a logger of its own
// uses the closest configured ancestor, and finally the root logger. The logger name is attached
// to every entry as LoggerField.
func (c *Configuration) Logger(name string) *logrus.Entry {
	if name == "" || name == rootLoggerName {
		return c.root.WithField(LoggerField, rootLoggerName)
	}
	for n := name; n != ""; {
		if l, ok := c.loggers[n]; ok {
			return l.WithField(LoggerField, name)
		}
		i := strings.LastIndex(n, ".")
		if i < 0 {
			break
		}
		n = n[:i]
	}
	return c.root.WithField(LoggerField, name)
}

// Root returns the root logger.
func (c *Configuration) Root() *logrus.Entry {
	return c.Logger(rootLoggerName)
}

// Close closes every file appender. Loggers obtained before Close stop writing to files.
func (c *Configuration) Close() error {
	var errs []error
	for _, a := range c.appenders {
		if err := a.close(); err != nil {
			errs = append(errs, fmt.Errorf("appender %s: %w", a.name, err))
		}
	}
	return errors.Join(errs...)
}
