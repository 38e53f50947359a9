package repository

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	recorddomain "github.com/smallbiznis/runway/internal/record/domain"
	revenuedomain "github.com/smallbiznis/runway/internal/revenue/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewRepository(db *gorm.DB, genID *snowflake.Node) recorddomain.Repository {
	return &repository{db: db, genID: genID}
}

func (r *repository) ListProjects(ctx context.Context) ([]recorddomain.Row, error) {
	var records []recorddomain.ProjectRecord
	if err := r.db.WithContext(ctx).Order("record_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]recorddomain.Row, 0, len(records))
	for _, rec := range records {
		row := make(recorddomain.Row, len(rec.Fields)+1)
		for k, v := range rec.Fields {
			row[k] = v
		}
		row[recorddomain.RecordIDKey] = rec.RecordID
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *repository) ListOverrides(ctx context.Context) ([]revenuedomain.Override, error) {
	var records []recorddomain.OverrideRecord
	err := r.db.WithContext(ctx).
		Order("record_id ASC").
		Order("updated_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]revenuedomain.Override, 0, len(records))
	for _, rec := range records {
		out = append(out, revenuedomain.Override{
			RecordID:  rec.RecordID,
			Amount:    rec.OverrideAmount,
			UpdatedAt: rec.UpdatedAt.UTC(),
		})
	}
	return out, nil
}

// UpsertOverride updates the latest override row for the record, or inserts
// one when none exists. Only that row is edited: older rows for the same
// record stay as stored, so a nil amount retires the latest value and lets
// the previous non-null one apply again.
func (r *repository) UpsertOverride(ctx context.Context, recordID string, amount *float64, at time.Time) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return recorddomain.ErrInvalidRecordID
	}
	if amount != nil && (math.IsNaN(*amount) || math.IsInf(*amount, 0)) {
		return recorddomain.ErrInvalidOverrideAmount
	}
	at = at.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing recorddomain.OverrideRecord
		err := tx.Where("record_id = ?", recordID).
			Order("updated_at DESC").
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err == nil {
			return tx.Model(&recorddomain.OverrideRecord{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{
					"override_amount": amount,
					"updated_at":      at,
				}).Error
		}

		return tx.Create(&recorddomain.OverrideRecord{
			ID:             r.genID.Generate(),
			RecordID:       recordID,
			OverrideAmount: amount,
			CreatedAt:      at,
			UpdatedAt:      at,
		}).Error
	})
}

// SaveProject creates or replaces a project row keyed by its record id.
func (r *repository) SaveProject(ctx context.Context, row recorddomain.Row) error {
	recordID := strings.TrimSpace(row.RecordID())
	if recordID == "" {
		return recorddomain.ErrInvalidRecordID
	}

	fields := make(datatypes.JSONMap, len(row))
	for k, v := range row {
		if k == recorddomain.RecordIDKey {
			continue
		}
		fields[k] = v
	}

	now := time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
	}).Create(&recorddomain.ProjectRecord{
		ID:        r.genID.Generate(),
		RecordID:  recordID,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}
