package common

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a JSON logger carrying a per-process run id, so
// rows written by one invocation can be matched to its log output.
func NewLogger(cmd string) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(GetEnvString("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	return logger.WithFields(logrus.Fields{
		"cmd": cmd,
		"run": xid.New().String(),
	})
}
