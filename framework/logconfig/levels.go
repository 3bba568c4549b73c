package logconfig

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// level is a logrus level, or off.
type level struct {
	logrus.Level
	off bool
}

func parseLevel(s string) (level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "trace":
		return level{Level: logrus.TraceLevel}, nil
	case "debug":
		return level{Level: logrus.DebugLevel}, nil
	case "info":
		return level{Level: logrus.InfoLevel}, nil
	case "warn":
		return level{Level: logrus.WarnLevel}, nil
	case "error":
		return level{Level: logrus.ErrorLevel}, nil
	case "fatal":
		return level{Level: logrus.FatalLevel}, nil
	case "off":
		return level{Level: logrus.PanicLevel, off: true}, nil
	}
	return level{}, fmt.Errorf("unknown level %q", s)
}

// capAt returns l, made no more verbose than limit.
func (l level) capAt(limit level) level {
	if limit.off {
		return limit
	}
	if l.off || l.Level <= limit.Level {
		return l
	}
	return limit
}

// levelsBetween returns the logrus levels from most to least severe, inclusive.
func levelsBetween(mostSevere, leastSevere logrus.Level) []logrus.Level {
	var ret []logrus.Level
	for _, l := range logrus.AllLevels {
		if l >= mostSevere && l <= leastSevere {
			ret = append(ret, l)
		}
	}
	return ret
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.WarnLevel:
		return "WARN"
	case logrus.PanicLevel:
		return "FATAL"
	}
	return strings.ToUpper(l.String())
}
