package logconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/vjeantet/jodaTime"
)

var namedDateFormats = map[string]string{ //nolint:gochecknoglobals
	"ISO8601":  "yyyy-MM-dd HH:mm:ss,SSS",
	"ABSOLUTE": "HH:mm:ss,SSS",
	"DATE":     "dd MMM yyyy HH:mm:ss,SSS",
}

// dateLetters are the pattern letters that jodaTime formats. Any other unquoted letter is an
// error, so that a typo in %d{...} is reported at startup instead of printed verbatim.
const dateLetters = "GCYxwedDEyMaKhHkmsSzZ"

// dateFormat is a validated Java-style date pattern, as used by %d{...}.
type dateFormat string

func parseDateFormat(pattern string) (dateFormat, error) {
	if pattern == "" {
		pattern = "ISO8601"
	}
	if named, ok := namedDateFormats[pattern]; ok {
		pattern = named
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\'':
			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				return "", fmt.Errorf("unterminated quote in date pattern %q", pattern)
			}
			i += end + 1
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			if strings.IndexByte(dateLetters, c) < 0 {
				return "", fmt.Errorf("unsupported date pattern letter %q in %q", c, pattern)
			}
		}
	}
	return dateFormat(pattern), nil
}

func (df dateFormat) format(t time.Time) string {
	return jodaTime.Format(string(df), t)
}
