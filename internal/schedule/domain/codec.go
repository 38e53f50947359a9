package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallbiznis/runway/internal/calendar"
)

// storedStage is the persisted stage shape: {name, ratio, date(epoch ms|null)}.
type storedStage struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
	Date  any     `json:"date"`
}

// EncodeStages serializes stages with dates as epoch milliseconds.
func EncodeStages(stages []Stage) ([]byte, error) {
	out := make([]storedStage, 0, len(stages))
	for _, s := range stages {
		var date any
		if ms := calendar.ToMillis(s.Date); ms != nil {
			date = *ms
		}
		out = append(out, storedStage{Name: strings.TrimSpace(s.Name), Ratio: s.Ratio, Date: date})
	}
	return json.Marshal(out)
}

// DecodeStages reads stored stages. Dates may be epoch milliseconds or
// date strings; anything else decodes as an unknown date.
func DecodeStages(raw []byte) ([]Stage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []Stage{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var stored []storedStage
	if err := dec.Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStages, err)
	}

	stages := make([]Stage, 0, len(stored))
	for _, s := range stored {
		date, _ := calendar.ParseDate(s.Date)
		stages = append(stages, Stage{Name: s.Name, Ratio: s.Ratio, Date: date})
	}
	return stages, nil
}
