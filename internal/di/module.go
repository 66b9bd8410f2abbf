package di

import (
	"github.com/polkiloo/shopmart/internal/app"
	"github.com/polkiloo/shopmart/internal/config"
	"github.com/polkiloo/shopmart/internal/logger"
	"github.com/polkiloo/shopmart/internal/server/http/router"
	"github.com/polkiloo/shopmart/internal/storage/postgres"
	"github.com/polkiloo/shopmart/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
