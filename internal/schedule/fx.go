package schedule

import (
	"github.com/smallbiznis/runway/internal/schedule/repository"
	"github.com/smallbiznis/runway/internal/schedule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
