// sentiric-softphone-service/cmd/softphone-service/main.go
package main

import (
	"fmt"
	"os"

	"github.com/sentiric/sentiric-softphone-service/internal/app"
	"github.com/sentiric/sentiric-softphone-service/internal/config"
	"github.com/sentiric/sentiric-softphone-service/internal/logger"
)

var (
	ServiceVersion string
	GitCommit      string
	BuildDate      string
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Konfigürasyon yüklenemedi: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(app.ServiceName, cfg.Env, cfg.LogLevel)

	log.Info().
		Str("version", ServiceVersion).
		Str("commit", GitCommit).
		Str("build_date", BuildDate).
		Str("profile", cfg.Env).
		Msg("🚀 softphone-service başlatılıyor...")

	app.NewApp(cfg, log).Run()
}
