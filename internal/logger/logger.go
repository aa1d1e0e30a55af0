// sentiric-softphone-service/internal/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New, serviceName, env ve logLevel'e göre yeni bir zerolog.Logger oluşturur.
// 'development' ortamında renkli konsol çıktısı, diğerlerinde JSON çıktısı verir.
func New(serviceName, env, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		level = zerolog.InfoLevel
		log.Warn().Msgf("Geçersiz LOG_LEVEL '%s', varsayılan olarak 'info' kullanılıyor.", logLevel)
	}

	zerolog.TimeFieldFormat = time.RFC3339

	var logger zerolog.Logger
	if env == "development" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.With().Timestamp().Str("service", serviceName).Str("env", env).Logger().Level(level)
}

// ForMethod, dispatch katmanının her istek için kullandığı alt logger'dır.
func ForMethod(base zerolog.Logger, method, domain string) zerolog.Logger {
	return base.With().Str("method", method).Str("domain", domain).Logger()
}
