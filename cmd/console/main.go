package main

import (
	stdLog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/gearstock/console/app"
	"github.com/gearstock/console/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, relying on the environment")
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("run ", err)
	}
}
