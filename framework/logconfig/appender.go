package logconfig

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type decision int

const (
	neutral decision = iota
	accept
	deny
)

// filter is one link of an appender's filter chain. The first filter that does not return
// neutral decides; an event that every filter is neutral about is written.
type filter interface {
	decide(entry *logrus.Entry) decision
}

type stringMatchFilter struct {
	match         string
	acceptOnMatch bool
}

func (f stringMatchFilter) decide(entry *logrus.Entry) decision {
	if f.match == "" || !strings.Contains(entry.Message, f.match) {
		return neutral
	}
	if f.acceptOnMatch {
		return accept
	}
	return deny
}

type levelMatchFilter struct {
	level         logrus.Level
	acceptOnMatch bool
}

func (f levelMatchFilter) decide(entry *logrus.Entry) decision {
	if entry.Level != f.level {
		return neutral
	}
	if f.acceptOnMatch {
		return accept
	}
	return deny
}

type levelRangeFilter struct {
	min, max      logrus.Level // min is the least severe level let through
	acceptOnMatch bool
}

func (f levelRangeFilter) decide(entry *logrus.Entry) decision {
	if entry.Level > f.min || entry.Level < f.max {
		return deny
	}
	if f.acceptOnMatch {
		return accept
	}
	return neutral
}

type denyAllFilter struct{}

func (denyAllFilter) decide(*logrus.Entry) decision { return deny }

// appender is a logrus hook that formats entries with its own layout and writes them to its own
// destination. Loggers write nothing themselves; all output goes through appenders.
type appender struct {
	name      string
	levels    []logrus.Level
	formatter logrus.Formatter
	filters   []filter
	out       io.Writer
	closer    io.Closer
	lock      sync.Mutex
}

func (a *appender) Levels() []logrus.Level { return a.levels }

func (a *appender) Fire(entry *logrus.Entry) error {
	for _, f := range a.filters {
		d := f.decide(entry)
		if d == deny {
			return nil
		}
		if d == accept {
			break
		}
	}
	if a.formatter == nil {
		return nil
	}
	data, err := a.formatter.Format(entry)
	if err != nil {
		return fmt.Errorf("appender %s: %w", a.name, err)
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.out == nil {
		return nil
	}
	_, err = a.out.Write(data)
	return err
}

func className(class string) string {
	return class[strings.LastIndex(class, ".")+1:]
}

func boolParam(params xmlParams, name string, defaultValue bool, opts Options) (bool, error) {
	s, ok := params.get(name)
	if !ok {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(expand(s, opts)))
	if err != nil {
		return false, fmt.Errorf("parameter %s: %q is not a boolean", name, s)
	}
	return b, nil
}

func expand(s string, opts Options) string {
	return os.Expand(s, opts.lookup)
}

func buildAppender(x xmlAppender, opts Options) (*appender, error) {
	if x.Name == "" {
		return nil, fmt.Errorf("appender of class %q has no name", x.Class)
	}
	switch className(x.Class) {
	case "ConsoleAppender", "FileAppender", "NullAppender":
	default:
		return nil, fmt.Errorf("appender %s: unsupported appender class %q", x.Name, x.Class)
	}
	a := &appender{name: x.Name, levels: logrus.AllLevels}
	if err := a.configureThreshold(x.Params, opts); err != nil {
		return nil, fmt.Errorf("appender %s: %w", x.Name, err)
	}
	for _, xf := range x.Filters {
		f, err := buildFilter(xf, opts)
		if err != nil {
			return nil, fmt.Errorf("appender %s: %w", x.Name, err)
		}
		a.filters = append(a.filters, f)
	}
	var formatter logrus.Formatter
	if className(x.Class) != "NullAppender" {
		if x.Layout == nil {
			return nil, fmt.Errorf("appender %s has no layout", x.Name)
		}
		var err error
		if formatter, err = buildLayout(*x.Layout, opts); err != nil {
			return nil, fmt.Errorf("appender %s: %w", x.Name, err)
		}
	}
	a.formatter = formatter
	if err := a.configureDestination(x, opts); err != nil {
		return nil, fmt.Errorf("appender %s: %w", x.Name, err)
	}
	return a, nil
}

func (a *appender) configureDestination(x xmlAppender, opts Options) error {
	switch className(x.Class) {
	case "ConsoleAppender":
		target, _ := x.Params.get("Target")
		switch strings.TrimSpace(expand(target, opts)) {
		case "", "System.out":
			a.out = opts.Stdout
		case "System.err":
			a.out = opts.Stderr
		default:
			return fmt.Errorf("unknown console target %q", target)
		}
	case "FileAppender":
		file, ok := x.Params.get("File")
		file = strings.TrimSpace(expand(file, opts))
		if !ok || file == "" {
			return fmt.Errorf("missing File parameter")
		}
		appendToFile, err := boolParam(x.Params, "Append", true, opts)
		if err != nil {
			return err
		}
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if !appendToFile {
			flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		}
		f, err := os.OpenFile(file, flags, 0644) //nolint:gosec
		if err != nil {
			return err
		}
		a.out = f
		a.closer = f
	case "NullAppender":
	default:
		return fmt.Errorf("unsupported appender class %q", x.Class)
	}
	return nil
}

func (a *appender) configureThreshold(params xmlParams, opts Options) error {
	s, ok := params.get("Threshold")
	if !ok {
		return nil
	}
	threshold, err := parseLevel(expand(s, opts))
	if err != nil {
		return err
	}
	if threshold.off {
		a.levels = nil
		return nil
	}
	a.levels = levelsBetween(logrus.PanicLevel, threshold.Level)
	return nil
}

func (a *appender) close() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	a.out = nil
	return err
}

func buildFilter(x xmlComponent, opts Options) (filter, error) {
	acceptOnMatch, err := boolParam(x.Params, "AcceptOnMatch", true, opts)
	if err != nil {
		return nil, err
	}
	levelParam := func(name string, defaultValue logrus.Level) (logrus.Level, error) {
		s, ok := x.Params.get(name)
		if !ok {
			return defaultValue, nil
		}
		l, err := parseLevel(expand(s, opts))
		if err != nil {
			return 0, fmt.Errorf("parameter %s: %w", name, err)
		}
		return l.Level, nil
	}

	switch className(x.Class) {
	case "StringMatchFilter":
		s, _ := x.Params.get("StringToMatch")
		return stringMatchFilter{match: expand(s, opts), acceptOnMatch: acceptOnMatch}, nil
	case "LevelMatchFilter":
		if _, ok := x.Params.get("LevelToMatch"); !ok {
			return nil, fmt.Errorf("LevelMatchFilter without LevelToMatch")
		}
		l, err := levelParam("LevelToMatch", logrus.TraceLevel)
		if err != nil {
			return nil, err
		}
		return levelMatchFilter{level: l, acceptOnMatch: acceptOnMatch}, nil
	case "LevelRangeFilter":
		acceptOnMatch, err = boolParam(x.Params, "AcceptOnMatch", false, opts)
		if err != nil {
			return nil, err
		}
		minLevel, err := levelParam("LevelMin", logrus.TraceLevel)
		if err != nil {
			return nil, err
		}
		maxLevel, err := levelParam("LevelMax", logrus.PanicLevel)
		if err != nil {
			return nil, err
		}
		return levelRangeFilter{min: minLevel, max: maxLevel, acceptOnMatch: acceptOnMatch}, nil
	case "DenyAllFilter":
		return denyAllFilter{}, nil
	}
	return nil, fmt.Errorf("unsupported filter class %q", x.Class)
}
