package utils

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// serviceTagHook prefixes each entry with the service name so that lines from
// several processes sharing one log stream stay attributable.
type serviceTagHook struct {
	tag string
}

func (h *serviceTagHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *serviceTagHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.tag + "] " + entry.Message
	return nil
}

// InitLogger configures the shared Logger. LOG_LEVEL picks the level
// (default info).
func InitLogger(appName string) {
	initLogger(appName, os.Stdout, os.Getenv("LOG_LEVEL"))
}

func initLogger(appName string, out io.Writer, levelStr string) {
	Logger.SetOutput(out)

	levelStr = strings.ToLower(strings.TrimSpace(levelStr))
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		Logger.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", levelStr)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	Logger.ReplaceHooks(make(logrus.LevelHooks))
	Logger.AddHook(&serviceTagHook{tag: appName})
}
