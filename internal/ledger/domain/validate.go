package domain

import (
	"math"
	"strings"
	"time"
)

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validRange(start, end *time.Time) bool {
	return start == nil || end == nil || !end.Before(*start)
}

// Validate checks a labor cost before it is stored.
func (c LaborCost) Validate() error {
	if strings.TrimSpace(c.Item) == "" {
		return ErrInvalidName
	}
	if !validAmount(c.Amount) {
		return ErrInvalidAmount
	}
	if _, err := ParseFrequency(string(c.Frequency)); err != nil {
		return err
	}
	if !validRange(c.StartDate, c.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Validate checks an overhead cost before it is stored.
func (c OverheadCost) Validate() error {
	if strings.TrimSpace(c.Item) == "" {
		return ErrInvalidName
	}
	if !validAmount(c.MonthlyAmount) {
		return ErrInvalidAmount
	}
	if _, err := ParseFrequency(string(c.Frequency)); err != nil {
		return err
	}
	if !validRange(c.StartDate, c.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Validate checks a one-off item before it is stored.
func (i OneOffItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrInvalidName
	}
	if !validAmount(i.Amount) {
		return ErrInvalidAmount
	}
	if _, err := ParseOneOffKind(string(i.Kind)); err != nil {
		return err
	}
	if i.OccurredAt.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
