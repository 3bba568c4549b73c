// Package logconfig configures logrus loggers from a log4cxx-style XML file, the format read by
// log4cxx's DOMConfigurator. Only a subset of the appenders, layouts and filters of that format
// is supported; anything else is reported as an error rather than ignored.
package logconfig

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// ConfigError is returned for a configuration file that is missing or cannot be applied.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, fs.ErrNotExist) {
		return fmt.Sprintf("logging configuration %s is missing", e.Path)
	}
	return fmt.Sprintf("invalid logging configuration %s: %s", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Options control how a configuration is applied.
type Options struct {
	// Vars are consulted before the process environment when expanding ${NAME} in parameter values.
	Vars map[string]string

	// Stdout and Stderr are the targets of console appenders. They default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) lookup(name string) string {
	if v, ok := o.Vars[name]; ok {
		return v
	}
	return os.Getenv(name)
}

type xmlConfiguration struct {
	XMLName   xml.Name      `xml:"configuration"`
	Threshold string        `xml:"threshold,attr"`
	Appenders []xmlAppender `xml:"appender"`
	Root      *xmlLogger    `xml:"root"`
	Loggers   []xmlLogger   `xml:"logger"`
}

type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlParams []xmlParam

func (ps xmlParams) get(name string) (string, bool) {
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

type xmlComponent struct {
	Class  string    `xml:"class,attr"`
	Params xmlParams `xml:"param"`
}

type xmlAppender struct {
	Name    string         `xml:"name,attr"`
	Class   string         `xml:"class,attr"`
	Params  xmlParams      `xml:"param"`
	Layout  *xmlComponent  `xml:"layout"`
	Filters []xmlComponent `xml:"filter"`
}

type xmlValue struct {
	Value string `xml:"value,attr"`
}

type xmlAppenderRef struct {
	Ref string `xml:"ref,attr"`
}

type xmlLogger struct {
	Name         string           `xml:"name,attr"`
	Additivity   string           `xml:"additivity,attr"`
	Level        *xmlValue        `xml:"level"`
	Priority     *xmlValue        `xml:"priority"`
	AppenderRefs []xmlAppenderRef `xml:"appender-ref"`
}

func (l xmlLogger) levelValue() (string, bool) {
	switch {
	case l.Level != nil:
		return l.Level.Value, true
	case l.Priority != nil:
		return l.Priority.Value, true
	}
	return "", false
}

// Load reads the configuration file at path and builds the loggers it describes. Every error is
// a *ConfigError naming path.
func Load(path string, opts Options) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	c, err := Parse(data, opts)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return c, nil
}

// Parse builds the loggers described by an XML configuration document.
func Parse(data []byte, opts Options) (*Configuration, error) {
	var doc xmlConfiguration
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return build(doc, opts)
}
