package apploggers

import "go.uber.org/zap"

// AppLogger exposes the shared zap logger
type AppLogger interface {
	GetLogger() *zap.Logger
}
