package apploggers

import (
	"go.uber.org/zap"
	"os"
	"strings"
)

// DevProdAppLogger provides logging facilities that can be configured via the APP_ENV environment variable
type DevProdAppLogger struct {
	log *zap.Logger
}

func NewDevProdLogger() (*DevProdAppLogger, error) {
	var log *zap.Logger
	var err error

	if IsProduction() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return &DevProdAppLogger{log: log.Named("octobuildstep")}, nil
}

// NewNopLogger discards everything, and is used by tests
func NewNopLogger() *DevProdAppLogger {
	return &DevProdAppLogger{log: zap.NewNop()}
}

func IsProduction() bool {
	return strings.ToLower(os.Getenv("APP_ENV")) == "production"
}

func (d *DevProdAppLogger) GetLogger() *zap.Logger {
	return d.log
}
