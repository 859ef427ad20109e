package logger

import (
	"io"
	"os"
	"path/filepath"

	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Loggers bundles the application logger with the request-logger config
// for fiber. Both share one output.
type Loggers struct {
	App     *logrus.Logger
	Request *fiberLogger.Config
	closer  io.Closer
}

// Close releases the rotating log file, if one was opened.
func (l *Loggers) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// NewLogger writes to stdout and, when logDir is non-empty, to a rotating
// app.log inside it.
func NewLogger(logDir string, debug bool) (*Loggers, error) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer
	)

	if logDir != "" {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			return nil, err
		}

		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "app.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, logFile)
		closer = logFile
	}

	app := logrus.New()
	app.SetOutput(out)
	if debug {
		app.SetLevel(logrus.DebugLevel)
		app.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		app.SetLevel(logrus.InfoLevel)
		app.SetFormatter(&logrus.JSONFormatter{})
	}

	request := &fiberLogger.Config{
		Output:     out,
		Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}

	return &Loggers{App: app, Request: request, closer: closer}, nil
}
