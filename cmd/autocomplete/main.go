package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/db"
	"rideshare-backend/internal/logging"
	"rideshare-backend/internal/rides"

	"github.com/spf13/pflag"
)

// Разовый свип автозавершения для внешнего cron
func main() {
	asOfFlag := pflag.String("as-of", "", "момент времени RFC3339, по умолчанию сейчас")
	timeout := pflag.Duration("timeout", time.Minute, "таймаут операции")
	pflag.Parse()

	cfg, _ := config.Load()
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		parsed, err := time.Parse(time.RFC3339, *asOfFlag)
		if err != nil {
			logger.Error("неверный формат --as-of", "value", *asOfFlag, "error", err)
			os.Exit(2)
		}
		asOf = parsed.UTC()
	}

	database, err := db.ConnectWithRetry(cfg)
	if err != nil {
		logger.Error("Ошибка подключения к базе данных", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := rides.NewEngine(database, rides.WithLogger(logger)).AutoCompleteDueRides(ctx, asOf)
	if err != nil {
		logger.Error("ошибка автозавершения", "error", err)
		os.Exit(1)
	}
	fmt.Println(n)
}
