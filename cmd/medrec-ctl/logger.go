package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yeqown/medrec"
)

var _ medrec.Logger = (*logrusLogger)(nil)

// logrusLogger reports registry events as warnings, they are all about data
// that was skipped or restored.
type logrusLogger struct {
	entry *logrus.Entry
}

func (l *logrusLogger) Log(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "bad log level")
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return logger, nil
}

func registryLogger(logger *logrus.Logger) medrec.Logger {
	return &logrusLogger{entry: logger.WithField("component", "medrec")}
}
