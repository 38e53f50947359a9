package repository

import (
	"context"
	"errors"

	scheduledomain "github.com/smallbiznis/runway/internal/schedule/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) scheduledomain.Repository {
	return &repository{db: db}
}

func (r *repository) FindByRecordID(ctx context.Context, recordID string) (*scheduledomain.PaymentSchedule, error) {
	var row scheduledomain.PaymentSchedule
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context) ([]scheduledomain.PaymentSchedule, error) {
	var rows []scheduledomain.PaymentSchedule
	err := r.db.WithContext(ctx).
		Order("record_id ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert creates the schedule on first save and overwrites it afterwards.
// The original id and created_at survive updates.
func (r *repository) Upsert(ctx context.Context, schedule *scheduledomain.PaymentSchedule) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"template_name", "stages", "updated_at"}),
	}).Create(schedule).Error
}

func (r *repository) Delete(ctx context.Context, recordID string) error {
	return r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Delete(&scheduledomain.PaymentSchedule{}).Error
}
