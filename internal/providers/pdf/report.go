package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
)

type PDFProvider struct{}

var _ Provider = (*PDFProvider)(nil)

func New() Provider {
	return &PDFProvider{}
}

var (
	header = props.Text{Style: fontstyle.Bold, Size: 9}
	cell   = props.Text{Size: 9}
	number = props.Text{Size: 9, Align: align.Right}
)

// GenerateReport renders the cash-flow forecast, runway table and warnings.
func (p *PDFProvider) GenerateReport(ctx context.Context, report *forecastdomain.Report) (io.Reader, error) {
	if report == nil {
		return nil, errors.New("report is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Cash-flow forecast", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(14,
		col.New(12).Add(
			text.New("Run: "+report.RunID, props.Text{Size: 9}),
			text.New("Generated: "+report.GeneratedAt.Format("2006-01-02 15:04 MST"), props.Text{Size: 9, Top: 4}),
			text.New("Reference date: "+report.ReferenceDate.Format("2006-01-02"), props.Text{Size: 9, Top: 8}),
		),
	)

	addForecast(m, report)
	addRunway(m, report)
	addWarnings(m, report)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func addForecast(m core.Maroto, report *forecastdomain.Report) {
	section(m, "Monthly cash inflow")
	m.AddRow(8,
		text.NewCol(4, "Month", header),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(4, "Cumulative", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, row := range report.Forecast {
		m.AddRow(6,
			text.NewCol(4, row.Month, cell),
			text.NewCol(4, amount(row.Amount), number),
			text.NewCol(4, amount(row.Cumulative), number),
		)
	}
	if report.Monthly.Unscheduled.EntryCount > 0 {
		m.AddRow(6,
			text.NewCol(4, "Unscheduled", cell),
			text.NewCol(4, amount(report.Monthly.Unscheduled.Total), number),
			col.New(4),
		)
	}
}

func addRunway(m core.Maroto, report *forecastdomain.Report) {
	rw := report.Runway
	section(m, "Runway")
	if !rw.HasData {
		m.AddRow(6, text.NewCol(12, "No cash-flow data.", cell))
		return
	}

	m.AddRow(6, text.NewCol(12, fmt.Sprintf("Runway %d months, minimum balance %s, initial cash %s",
		rw.RunwayMonths, amount(rw.MinBalance), amount(rw.InitialCash)), cell))
	m.AddRow(8,
		text.NewCol(3, "Month", header),
		text.NewCol(3, "Income", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Cost", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Balance", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, row := range rw.Months {
		m.AddRow(6,
			text.NewCol(3, row.Month, cell),
			text.NewCol(3, amount(row.TotalIncome), number),
			text.NewCol(3, amount(row.TotalCost), number),
			text.NewCol(3, amount(row.Balance), number),
		)
	}
}

func addWarnings(m core.Maroto, report *forecastdomain.Report) {
	if len(report.Warnings) == 0 {
		return
	}
	section(m, "Warnings")
	for _, w := range report.Warnings {
		m.AddRow(6,
			text.NewCol(3, string(w.Kind), cell),
			text.NewCol(2, w.RecordID, cell),
			text.NewCol(7, w.Message, cell),
		)
	}
}

func section(m core.Maroto, title string) {
	m.AddRow(12,
		text.NewCol(12, title, props.Text{Size: 12, Style: fontstyle.Bold, Top: 4}),
	)
}

func amount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
