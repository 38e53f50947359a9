package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Row is a flat project record as delivered by the record store.
type Row map[string]any

// RecordIDKey is the field carrying the stable record identity.
const RecordIDKey = "record_id"

// RecordID returns the row identity, or "" when missing.
func (r Row) RecordID() string {
	for _, key := range []string{RecordIDKey, "_record_id", "id"} {
		if v, ok := r[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// ProjectRecord stores a project row as an opaque field map.
type ProjectRecord struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	RecordID  string            `gorm:"column:record_id;type:text;not null;uniqueIndex"`
	Fields    datatypes.JSONMap `gorm:"column:fields;not null"`
	CreatedAt time.Time         `gorm:"not null"`
	UpdatedAt time.Time         `gorm:"not null"`
}

func (ProjectRecord) TableName() string { return "project_records" }

// OverrideRecord is one manual revenue override write.
type OverrideRecord struct {
	ID             snowflake.ID `gorm:"primaryKey"`
	RecordID       string       `gorm:"column:record_id;type:text;not null;index"`
	OverrideAmount *float64     `gorm:"column:override_amount;type:numeric(18,2)"`
	CreatedAt      time.Time    `gorm:"not null"`
	UpdatedAt      time.Time    `gorm:"column:updated_at;not null;index"`
}

func (OverrideRecord) TableName() string { return "revenue_overrides" }
