package logconfig

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// LoggerField is the entry field that carries the logger name; %c prints it.
const LoggerField = "logger"

// ThreadField is the entry field printed by %t. Go has no thread names, so "main" is printed when
// the field is not set.
const ThreadField = "thread"

const (
	simplePattern = "%p - %m%n"
	ttccPattern   = "%r [%t] %p %c - %m%n"
)

func buildLayout(x xmlComponent, opts Options) (logrus.Formatter, error) {
	switch className(x.Class) {
	case "PatternLayout":
		pattern, ok := x.Params.get("ConversionPattern")
		if !ok {
			pattern = "%m%n"
		}
		return newPatternFormatter(expand(pattern, opts))
	case "SimpleLayout":
		return newPatternFormatter(simplePattern)
	case "TTCCLayout":
		return newPatternFormatter(ttccPattern)
	case "JSONLayout":
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}, nil
	}
	return nil, fmt.Errorf("unsupported layout class %q", x.Class)
}

type segment struct {
	literal   string
	verb      byte
	option    string
	minWidth  int
	maxWidth  int
	leftAlign bool
	date      dateFormat
}

type patternFormatter struct {
	segments []segment
	start    time.Time
}

func newPatternFormatter(pattern string) (*patternFormatter, error) {
	segments, err := parsePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("conversion pattern %q: %w", pattern, err)
	}
	return &patternFormatter{segments: segments, start: time.Now()}, nil
}

func parsePattern(pattern string) ([]segment, error) {
	var segments []segment
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '%' {
			literal.WriteByte(pattern[i])
			continue
		}
		i++
		if i >= len(pattern) {
			return nil, fmt.Errorf("pattern ends with %%")
		}
		if pattern[i] == '%' {
			literal.WriteByte('%')
			continue
		}
		var seg segment
		if pattern[i] == '-' {
			seg.leftAlign = true
			i++
		}
		seg.minWidth, i = parseNumber(pattern, i)
		if i < len(pattern) && pattern[i] == '.' {
			seg.maxWidth, i = parseNumber(pattern, i+1)
		}
		if i >= len(pattern) {
			return nil, fmt.Errorf("missing conversion character at end of pattern")
		}
		seg.verb = pattern[i]
		if i+1 < len(pattern) && pattern[i+1] == '{' {
			end := strings.IndexByte(pattern[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated option for %%%c", seg.verb)
			}
			seg.option = pattern[i+2 : i+1+end]
			i += end + 1
		}
		if err := seg.validate(); err != nil {
			return nil, err
		}
		flush()
		segments = append(segments, seg)
	}
	flush()
	return segments, nil
}

func parseNumber(s string, i int) (int, int) {
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, i
}

func (s *segment) validate() error {
	switch s.verb {
	case 'c':
		if s.option != "" {
			if n, err := strconv.Atoi(s.option); err != nil || n < 1 {
				return fmt.Errorf("invalid precision %q for %%c", s.option)
			}
		}
	case 'd':
		df, err := parseDateFormat(s.option)
		if err != nil {
			return err
		}
		s.date = df
	case 'X':
		if s.option == "" {
			return fmt.Errorf("%%X needs a key, as in %%X{key}")
		}
	case 'm', 'n', 'p', 'r', 't':
	default:
		return fmt.Errorf("unsupported conversion character %%%c", s.verb)
	}
	return nil
}

func (f *patternFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer
	for _, seg := range f.segments {
		if seg.verb == 0 {
			buf.WriteString(seg.literal)
			continue
		}
		if seg.verb == 'n' {
			buf.WriteByte('\n')
			continue
		}
		buf.WriteString(seg.pad(f.value(seg, entry)))
	}
	return buf.Bytes(), nil
}

func (f *patternFormatter) value(seg segment, entry *logrus.Entry) string {
	switch seg.verb {
	case 'c':
		return abbreviateLoggerName(loggerName(entry), seg.option)
	case 'd':
		return seg.date.format(entry.Time)
	case 'm':
		return entry.Message
	case 'p':
		return levelName(entry.Level)
	case 'r':
		return strconv.FormatInt(entry.Time.Sub(f.start).Milliseconds(), 10)
	case 't':
		if v, ok := entry.Data[ThreadField]; ok {
			return fmt.Sprint(v)
		}
		return "main"
	case 'X':
		if v, ok := entry.Data[seg.option]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

// pad applies the width modifiers. Values longer than the maximum width lose their beginning.
func (s segment) pad(v string) string {
	if n := utf8.RuneCountInString(v); s.maxWidth > 0 && n > s.maxWidth {
		runes := []rune(v)
		v = string(runes[len(runes)-s.maxWidth:])
	}
	n := utf8.RuneCountInString(v)
	if n >= s.minWidth {
		return v
	}
	fill := strings.Repeat(" ", s.minWidth-n)
	if s.leftAlign {
		return v + fill
	}
	return fill + v
}

func loggerName(entry *logrus.Entry) string {
	if v, ok := entry.Data[LoggerField]; ok {
		return fmt.Sprint(v)
	}
	return rootLoggerName
}

func abbreviateLoggerName(name, precision string) string {
	if precision == "" {
		return name
	}
	n, _ := strconv.Atoi(precision)
	parts := strings.Split(name, ".")
	if n >= len(parts) {
		return name
	}
	return strings.Join(parts[len(parts)-n:], ".")
}
