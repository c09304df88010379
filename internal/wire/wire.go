//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/sevigo/reviewgate/internal/app"
	"github.com/sevigo/reviewgate/internal/collector"
	"github.com/sevigo/reviewgate/internal/config"
	"github.com/sevigo/reviewgate/internal/gitutil"
	"github.com/sevigo/reviewgate/internal/llm"
)

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		config.LoadConfig,
		gitutil.NewClient,
		collector.New,
		llm.NewPromptManager,
		provideProviders,
		provideCache,
		provideOrchestrator,
		provideDatabase,
		provideHistory,
		provideLogWriter,
		provideSlogLogger,
		wire.FieldsOf(new(*config.Config), "Logging"),
		wire.Bind(new(collector.Differ), new(*gitutil.Client)),
	)
	return &app.App{}, nil, nil
}
