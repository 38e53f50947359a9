package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Base names the project milestone a stage offset is measured from.
type Base string

const (
	BaseStart    Base = "start"
	BaseDelivery Base = "delivery"
)

// ParseBase accepts the English names and the legacy labels 开始时间/交付时间.
func ParseBase(raw string) (Base, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "start", "开始时间":
		return BaseStart, true
	case "delivery", "交付时间":
		return BaseDelivery, true
	default:
		return "", false
	}
}

// TemplateStage is one stage of a reusable payment template.
type TemplateStage struct {
	Name         string  `json:"name"`
	Ratio        float64 `json:"ratio"`
	OffsetMonths int     `json:"offset_months"`
	Base         Base    `json:"base"`
}

// Template is an ordered list of stages whose ratios sum to 1.
type Template struct {
	Name   string          `json:"name"`
	Stages []TemplateStage `json:"stages"`
}

// Stage is a concrete payment stage for one project. Date is nil when the
// base milestone is unknown.
type Stage struct {
	Name   string     `json:"name"`
	Ratio  float64    `json:"ratio"`
	Date   *time.Time `json:"date"`
	Amount float64    `json:"amount"`
}

// Month returns YYYY-MM or "" when the date is unknown.
func (s Stage) Month() string {
	if s.Date == nil {
		return ""
	}
	return s.Date.Format("2006-01")
}

// PersistedSchedule is a per-project schedule that replaces template generation.
type PersistedSchedule struct {
	RecordID     string    `json:"record_id"`
	TemplateName string    `json:"template_name"`
	Stages       []Stage   `json:"stages"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PaymentSchedule is the storage row for a persisted schedule.
type PaymentSchedule struct {
	ID           snowflake.ID   `gorm:"primaryKey"`
	RecordID     string         `gorm:"column:record_id;type:text;not null;uniqueIndex"`
	TemplateName string         `gorm:"column:template_name;type:text"`
	Stages       datatypes.JSON `gorm:"column:stages;not null"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
}

func (PaymentSchedule) TableName() string { return "payment_schedules" }

// Catalog resolves templates by name and by business line.
type Catalog interface {
	Template(name string) (Template, bool)
	DefaultFor(businessLine string) Template
	DefaultName() string
	Names() []string
	Templates() []Template
}
