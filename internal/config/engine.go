package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EngineConfig carries every tunable consumed by the forecasting engine.
// A snapshot is passed by value into engine entry points.
type EngineConfig struct {
	Forecast ForecastConfig `mapstructure:"forecast"`
	Cost     CostConfig     `mapstructure:"cost"`
	Cashflow CashflowConfig `mapstructure:"cashflow"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

type ForecastConfig struct {
	DecayLambda        float64 `mapstructure:"decay_lambda"`
	BaseDateOffsetDays int     `mapstructure:"base_date_offset"`
	MonthsAhead        int     `mapstructure:"months_ahead"`
	FillZeroMonths     bool    `mapstructure:"fill_zero_months"`
}

type CostConfig struct {
	TaxRate              float64            `mapstructure:"tax_rate"`
	MaterialRatios       map[string]float64 `mapstructure:"material_ratios"`
	DefaultMaterialRatio float64            `mapstructure:"default_material_ratio"`
}

type CashflowConfig struct {
	InitialCash float64 `mapstructure:"current_cash"`
	MonthsAhead int     `mapstructure:"months_ahead"`
}

// ScheduleConfig overrides the built-in payment template catalog.
// An empty Templates list keeps the built-in catalog.
type ScheduleConfig struct {
	DefaultTemplate       string            `mapstructure:"default_template"`
	BusinessLineTemplates map[string]string `mapstructure:"business_line_templates"`
	Templates             []TemplateConfig  `mapstructure:"templates"`
}

type TemplateConfig struct {
	Name   string        `mapstructure:"name"`
	Stages []StageConfig `mapstructure:"stages"`
}

type StageConfig struct {
	Name         string  `mapstructure:"name"`
	Ratio        float64 `mapstructure:"ratio"`
	OffsetMonths int     `mapstructure:"offset_months"`
	Base         string  `mapstructure:"base"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Forecast: ForecastConfig{
			DecayLambda:        0.0315,
			BaseDateOffsetDays: 0,
			MonthsAhead:        12,
			FillZeroMonths:     true,
		},
		Cost: CostConfig{
			TaxRate: 0.13,
			MaterialRatios: map[string]float64{
				"光谱设备/服务": 0.30,
				"配液设备":    0.35,
				"自动化项目":   0.40,
			},
			DefaultMaterialRatio: 0.30,
		},
		Cashflow: CashflowConfig{
			InitialCash: 100,
			MonthsAhead: 12,
		},
	}
}

// MaterialRatio returns the material cost ratio for a business line.
func (c CostConfig) MaterialRatio(businessLine string) float64 {
	if ratio, ok := c.MaterialRatios[strings.TrimSpace(businessLine)]; ok {
		return ratio
	}
	return c.DefaultMaterialRatio
}

type EngineConfigHolder struct {
	current atomic.Value // holds EngineConfig
}

// NewEngineConfigHolder loads engine.yml and keeps it hot reloaded.
// A missing file yields the defaults; invalid reloads are ignored.
func NewEngineConfigHolder(appCfg Config, log *zap.Logger) (*EngineConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("engine.config")

	v := viper.New()
	v.SetConfigName("engine")
	v.SetConfigType("yml")
	if appCfg.EngineConfigPath != "" {
		v.AddConfigPath(appCfg.EngineConfigPath)
	}
	v.AddConfigPath("/etc/runway")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RUNWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		found = false
	}

	cfg, err := decodeEngineConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticEngineConfigHolder(cfg)
	if !found {
		log.Info("engine config file not found, using defaults")
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeEngineConfig(v)
		if err != nil {
			log.Warn("engine config reload rejected", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("engine config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticEngineConfigHolder wraps a fixed config without file watching.
func NewStaticEngineConfigHolder(cfg EngineConfig) *EngineConfigHolder {
	holder := &EngineConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *EngineConfigHolder) Get() EngineConfig {
	return h.current.Load().(EngineConfig)
}

func decodeEngineConfig(v *viper.Viper) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if v.IsSet("engine") {
		if err := v.UnmarshalKey("engine", &cfg); err != nil {
			return EngineConfig{}, err
		}
	}
	if err := ValidateEngineConfig(cfg); err != nil {
		return EngineConfig{}, err
	}
	return cfg, nil
}

func ValidateEngineConfig(cfg EngineConfig) error {
	if cfg.Forecast.MonthsAhead < 0 {
		return errors.New("engine.forecast.months_ahead cannot be negative")
	}
	if cfg.Cashflow.MonthsAhead < 0 {
		return errors.New("engine.cashflow.months_ahead cannot be negative")
	}
	if cfg.Cost.TaxRate < 0 || cfg.Cost.TaxRate > 1 {
		return fmt.Errorf("engine.cost.tax_rate out of range: %v", cfg.Cost.TaxRate)
	}
	if cfg.Cost.DefaultMaterialRatio < 0 || cfg.Cost.DefaultMaterialRatio > 1 {
		return fmt.Errorf("engine.cost.default_material_ratio out of range: %v", cfg.Cost.DefaultMaterialRatio)
	}
	for line, ratio := range cfg.Cost.MaterialRatios {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("engine.cost.material_ratios[%s] out of range: %v", line, ratio)
		}
	}
	for i, tpl := range cfg.Schedule.Templates {
		if strings.TrimSpace(tpl.Name) == "" {
			return fmt.Errorf("engine.schedule.templates[%d] is missing a name", i)
		}
		if len(tpl.Stages) == 0 {
			return fmt.Errorf("engine.schedule.templates[%d] has no stages", i)
		}
	}
	return nil
}
