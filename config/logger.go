package config

import (
	"log"
	"strings"

	"go.uber.org/zap"
)

// Log là logger vận hành (structured) dùng trong services
var Log *zap.SugaredLogger

func InitLogger(mode string) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production", "release":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		log.Fatal("Không thể khởi tạo zap logger:", err)
	}
	Log = zapLogger.Sugar()
}

func init() {
	// fallback cho test / tool chưa gọi InitLogger
	if Log == nil {
		Log = zap.NewNop().Sugar()
	}
}
