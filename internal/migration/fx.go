package migration

import (
	"github.com/smallbiznis/runway/internal/config"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&recorddomain.ProjectRecord{},
		&recorddomain.OverrideRecord{},
		&scheduledomain.PaymentSchedule{},
		&ledgerdomain.LaborCost{},
		&ledgerdomain.OverheadCost{},
		&ledgerdomain.OneOffItem{},
	}
}

var Module = fx.Module("migrations",
	fx.Invoke(migrateSchema),
)

// migrateSchema runs versioned SQL on postgres. Other dialects are used for
// local runs and tests and get gorm's AutoMigrate instead.
func migrateSchema(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
	log = log.Named("migration")
	if cfg.DBType != "postgres" {
		log.Info("auto migrating schema", zap.String("db_type", cfg.DBType))
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return Apply(sqlDB, log)
}
