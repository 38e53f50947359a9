package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
)

type forecastQuery struct {
	MonthsAhead         string `form:"months_ahead"`
	RunwayMonthsAhead   string `form:"runway_months_ahead"`
	InitialCash         string `form:"initial_cash"`
	ReferenceOffsetDays string `form:"reference_offset_days"`
	FillZeroMonths      string `form:"fill_zero_months"`
}

func (q forecastQuery) toRequest() (forecastdomain.Request, error) {
	var req forecastdomain.Request
	var err error

	if req.MonthsAhead, err = parseOptionalInt(q.MonthsAhead); err != nil {
		return req, newValidationError("months_ahead", "invalid_months_ahead", "invalid months_ahead")
	}
	if req.RunwayMonthsAhead, err = parseOptionalInt(q.RunwayMonthsAhead); err != nil {
		return req, newValidationError("runway_months_ahead", "invalid_runway_months_ahead", "invalid runway_months_ahead")
	}
	if req.InitialCash, err = parseOptionalFloat(q.InitialCash); err != nil {
		return req, newValidationError("initial_cash", "invalid_initial_cash", "invalid initial_cash")
	}
	if req.ReferenceOffsetDays, err = parseOptionalInt(q.ReferenceOffsetDays); err != nil {
		return req, newValidationError("reference_offset_days", "invalid_reference_offset_days", "invalid reference_offset_days")
	}
	if req.FillZeroMonths, err = parseOptionalBool(q.FillZeroMonths); err != nil {
		return req, newValidationError("fill_zero_months", "invalid_fill_zero_months", "invalid fill_zero_months")
	}
	return req, nil
}

func (s *Server) runForecast(c *gin.Context) (*forecastdomain.Report, bool) {
	var query forecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return nil, false
	}
	req, err := query.toRequest()
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}

	start := time.Now()
	report, err := s.forecastSvc.Run(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	s.apiMetrics.ObserveReport(len(report.Projects), report.Runway.RunwayMonths, time.Since(start))
	return report, true
}

func (s *Server) GetForecast(c *gin.Context) {
	report, ok := s.runForecast(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) GetForecastPDF(c *gin.Context) {
	if s.pdf == nil {
		AbortWithError(c, ErrNotFound)
		return
	}
	report, ok := s.runForecast(c)
	if !ok {
		return
	}

	r, err := s.pdf.GenerateReport(c.Request.Context(), report)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(r)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="forecast-`+report.RunID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", body)
}

type runwayResponse struct {
	RunID    string                   `json:"run_id"`
	Runway   any                      `json:"runway"`
	Costs    any                      `json:"costs"`
	Warnings []forecastdomain.Warning `json:"warnings"`
}

func (s *Server) GetRunway(c *gin.Context) {
	report, ok := s.runForecast(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runwayResponse{
		RunID:    report.RunID,
		Runway:   report.Runway,
		Costs:    report.Costs,
		Warnings: report.Warnings,
	}})
}

func (s *Server) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.forecastSvc.Templates(c.Request.Context())})
}
