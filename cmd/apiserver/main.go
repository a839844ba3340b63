package main

import (
	"fmt"
	"log"

	"github.com/timetable/engine/internal/config"
	"github.com/timetable/engine/internal/httpapi"
	"github.com/timetable/engine/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	r := httpapi.NewRouter(cfg, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logger.Sugar().Fatalw("server failed", "error", err)
	}
}
