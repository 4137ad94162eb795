package zerolog

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
)

const (
	messageWidth = 80
	fileWidth    = 18
	lineWidth    = 4
)

func consoleWriter(out io.Writer, timeLayout string, colored bool) zerolog.ConsoleWriter {
	paint := func(color func(string, ...interface{}) string, format string, args ...any) string {
		if !colored {
			return fmt.Sprintf(format, args...)
		}
		return color(format, args...)
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    !colored,
		TimeFormat: timeLayout,
		FormatLevel: func(i interface{}) string {
			name, _ := i.(string)
			tag, color := levelTag(name)
			return paint(color, "[%s]", tag)
		},
		FormatMessage: func(i interface{}) string {
			return paint(term.Whitef, "> %s", padMessage(i))
		},
		FormatCaller: func(i interface{}) string {
			caller := shortCaller(i)
			if caller == "" {
				return ""
			}
			return paint(term.Yellowf, "[%s]", caller)
		},
		FormatTimestamp: func(i interface{}) string {
			return paint(term.Cyanf, "[%s]", localTime(i, timeLayout))
		},
	}
}

func levelTag(level string) (string, func(string, ...interface{}) string) {
	switch level {
	case zerolog.LevelTraceValue:
		return "TRC", term.Cyanf
	case zerolog.LevelDebugValue:
		return "DBG", term.Cyanf
	case zerolog.LevelInfoValue:
		return "INF", term.Greenf
	case zerolog.LevelWarnValue:
		return "WAR", term.Yellowf
	case zerolog.LevelErrorValue:
		return "ERR", term.Redf
	case zerolog.LevelFatalValue:
		return "FTL", term.Redf
	case zerolog.LevelPanicValue:
		return "PAN", term.Redf
	default:
		return "UNK", term.Whitef
	}
}

func padMessage(i interface{}) string {
	msg, _ := i.(string)
	if len(msg) > messageWidth {
		return msg[:messageWidth]
	}
	return msg + strings.Repeat(" ", messageWidth-len(msg))
}

// shortCaller renders file:line with a fixed width so messages line up
func shortCaller(i interface{}) string {
	name, _ := i.(string)
	if name == "" {
		return ""
	}

	file, line, ok := strings.Cut(filepath.Base(name), ":")
	if !ok {
		return filepath.Base(name)
	}
	if len(file) > fileWidth {
		file = file[:fileWidth]
	}
	if len(line) > lineWidth {
		line = line[len(line)-lineWidth:]
	}
	return fmt.Sprintf("%-*s:%*s", fileWidth, file, lineWidth, line)
}

func localTime(i interface{}, layout string) string {
	raw, ok := i.(string)
	if !ok {
		return fmt.Sprint(i)
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return ts.In(time.Local).Format(layout)
}
