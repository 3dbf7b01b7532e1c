package logger

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger on stderr so stdout carries only the report.
func New(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("err parsing log level: %w", err)
	}
	log.SetLevel(lvl)
	return log, nil
}
