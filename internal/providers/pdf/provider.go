package pdf

import (
	"context"
	"io"

	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("pdf",
	fx.Provide(New),
)

type Provider interface {
	GenerateReport(ctx context.Context, report *forecastdomain.Report) (io.Reader, error)
}
