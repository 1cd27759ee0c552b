// Package main is the entry point for the autotrans Lambda function.
//
// The provider is chosen once per cold start from AUTOTRANS_PROVIDER
// (default "web"); metered providers read AUTOTRANS_API_KEY.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/caarlos0/env/v11"

	_ "github.com/minios-linux/autotrans/gcloud"
	_ "github.com/minios-linux/autotrans/gtrans"
	"github.com/minios-linux/autotrans/handler"
	"github.com/minios-linux/autotrans/translate"
)

type settings struct {
	Provider    string `env:"PROVIDER" envDefault:"web"`
	APIKey      string `env:"API_KEY"`
	MaxSegments int    `env:"MAX_SEGMENTS"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

func main() {
	var s settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "AUTOTRANS_"}); err != nil {
		slog.Error("reading environment", "err", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx := context.Background()
	p, err := translate.Resolve(ctx, s.Provider, translate.ProviderConfig{
		APIKey:      s.APIKey,
		MaxSegments: s.MaxSegments,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("configuring provider", "provider", s.Provider, "err", err)
		os.Exit(1)
	}

	lambda.Start(handler.New(p, logger).Invoke)
}
