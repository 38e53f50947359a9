package record

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/runway/internal/cache"
	"github.com/smallbiznis/runway/internal/config"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	"github.com/smallbiznis/runway/internal/record/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type repositoryParam struct {
	fx.In

	DB    *gorm.DB
	GenID *snowflake.Node
	Store cache.Store `optional:"true"`
	Cfg   config.Config
	Log   *zap.Logger
}

func provideRepository(p repositoryParam) recorddomain.Repository {
	return repository.NewCached(
		repository.NewRepository(p.DB, p.GenID),
		p.Store,
		p.Cfg.Redis.RecordCacheTTL,
		p.Log,
	)
}

var Module = fx.Module("record.store",
	fx.Provide(provideRepository),
)
