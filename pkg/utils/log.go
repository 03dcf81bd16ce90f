package utils

import (
	"fmt"
	"sync"

	"github.com/ghettovoice/gosip/log"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var (
	loggersMutex    sync.Mutex
	loggers         map[string]*log.LogrusLogger
	DefaultLogLevel = log.InfoLevel
)

func init() {
	loggers = make(map[string]*log.LogrusLogger)
}

// NewLogrusLogger returns a prefixed logger backed by a shared logrus
// instance per prefix. The level applies to the whole prefix, not to a
// single returned logger.
func NewLogrusLogger(level log.Level, prefix string, fields log.Fields) log.Logger {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()

	if logger, found := loggers[prefix]; found {
		return logger.WithPrefix(prefix)
	}

	l := logrus.New()
	l.Formatter = &prefixed.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		ForceColors:     true,
		ForceFormatting: true,
	}
	logger := log.NewLogrusLogger(l, prefix, fields)
	logger.SetLevel(level)
	loggers[prefix] = logger
	return logger.WithPrefix(prefix)
}

func SetLogLevel(prefix string, level log.Level) error {
	loggersMutex.Lock()
	defer loggersMutex.Unlock()

	if logger, found := loggers[prefix]; found {
		logger.SetLevel(level)
		return nil
	}
	return fmt.Errorf("logger [%v] not found", prefix)
}
