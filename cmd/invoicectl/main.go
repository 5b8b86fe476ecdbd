package main

import (
	stdlog "log"

	"invoice_manager/internal/config"
	"invoice_manager/internal/logger"
)

func main() {
	cfg := config.Load()
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}

	Execute(cfg)
}
