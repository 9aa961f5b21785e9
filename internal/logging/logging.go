package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/config"
)

// New builds the application logger from config. JSON output is intended for
// production log shipping; the text formatter is friendlier locally.
func New(cfg config.LogConfig) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}
