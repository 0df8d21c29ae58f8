package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"geoscale/internal/config"
)

// newLogger builds the logger for a command. Interactive sessions must not
// write to the terminal, so they log to cfg.LogFile or nowhere.
func newLogger(cfg config.Config, stderr io.Writer, interactive bool) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)

	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = func() { f.Close() }
	case interactive:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(stderr)
	}
	return log, closeFn, nil
}
