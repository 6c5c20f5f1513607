package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/panyam/qcalc/cmd/qcalc/commands"
)

func main() {
	envfile := ".env"
	if os.Getenv("QCALC_ENV") == "dev" {
		envfile = ".env.dev"
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		slog.SetDefault(logger)
	}
	if _, err := os.Stat(envfile); err == nil {
		if err := godotenv.Load(envfile); err != nil {
			log.Fatal("Error loading env file ", envfile, ": ", err)
		}
	}

	commands.Execute()
}
