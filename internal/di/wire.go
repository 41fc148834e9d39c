//go:build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/SergeyParamoshkin/sportsnews/internal/article"
	"github.com/SergeyParamoshkin/sportsnews/internal/auth"
	"github.com/SergeyParamoshkin/sportsnews/internal/config"
	"github.com/SergeyParamoshkin/sportsnews/internal/football"
	"github.com/SergeyParamoshkin/sportsnews/internal/metrics"
	"github.com/SergeyParamoshkin/sportsnews/internal/store"
	"go.uber.org/zap"
)

// InitializeApp wires the application components together.
func InitializeApp(cfg *config.Config, logger *zap.SugaredLogger, m *metrics.Metrics) (*App, func(), error) {
	wire.Build(
		provideDB,
		store.NewArticleStore,
		store.NewAdminStore,
		wire.Bind(new(article.Repository), new(*store.ArticleStore)),
		wire.Bind(new(auth.Repository), new(*store.AdminStore)),
		provideImageStore,
		provideUploads,
		provideResponder,
		provideTokenManager,
		provideCookiePolicy,
		auth.NewService,
		auth.NewHandler,
		article.NewService,
		article.NewHandler,
		provideFootballClient,
		wire.Bind(new(football.Upstream), new(*football.Client)),
		football.NewAggregator,
		football.NewHandler,
		provideRouter,
		provideKeepAlive,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
