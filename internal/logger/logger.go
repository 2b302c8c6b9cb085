package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It discards output until Init is called,
// so packages can log from tests without setup.
var Log = newDiscard()

// Options selects the level, format and destination of the log.
type Options struct {
	Level  string // logrus level name; empty means info
	Format string // "json" or "text"
	File   string // empty means stderr
}

// Init configures Log. The returned closer releases the log file, if any.
func Init(opts Options) (io.Closer, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.ToLower(opts.Format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: opts.File != "",
		})
	}

	var closer io.Closer = io.NopCloser(nil)
	if opts.File == "" {
		l.SetOutput(os.Stderr)
	} else {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		l.SetOutput(f)
		closer = f
	}

	Log = l
	return closer, nil
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
