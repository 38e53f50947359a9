package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/smallbiznis/runway/internal/ledger/domain"
)

type laborCostRequest struct {
	CostType  string  `json:"cost_type"`
	Item      string  `json:"item"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Remark    string  `json:"remark"`
}

type overheadCostRequest struct {
	Category      string  `json:"category"`
	ExpenseType   string  `json:"expense_type"`
	Item          string  `json:"item"`
	MonthlyAmount float64 `json:"monthly_amount"`
	Frequency     string  `json:"frequency"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Remark        string  `json:"remark"`
}

type oneOffItemRequest struct {
	Kind       string  `json:"kind"`
	Category   string  `json:"category"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	OccurredAt string  `json:"occurred_at"`
	Remark     string  `json:"remark"`
}

func (s *Server) ListCosts(c *gin.Context) {
	snap, err := s.ledgerSvc.Snapshot(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

func (s *Server) GetCostSummary(c *gin.Context) {
	var query struct {
		From string `form:"from"`
		To   string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	summary, err := s.ledgerSvc.Summary(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) CreateLaborCost(c *gin.Context) {
	var req laborCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	start, end, ok := parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	resp, err := s.ledgerSvc.AddLabor(c.Request.Context(), ledgerdomain.LaborCost{
		CostType:  strings.TrimSpace(req.CostType),
		Item:      strings.TrimSpace(req.Item),
		Amount:    req.Amount,
		Frequency: ledgerdomain.Frequency(req.Frequency),
		StartDate: start,
		EndDate:   end,
		Remark:    strings.TrimSpace(req.Remark),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CreateOverheadCost(c *gin.Context) {
	var req overheadCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	start, end, ok := parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	resp, err := s.ledgerSvc.AddOverhead(c.Request.Context(), ledgerdomain.OverheadCost{
		Category:      strings.TrimSpace(req.Category),
		ExpenseType:   strings.TrimSpace(req.ExpenseType),
		Item:          strings.TrimSpace(req.Item),
		MonthlyAmount: req.MonthlyAmount,
		Frequency:     ledgerdomain.Frequency(req.Frequency),
		StartDate:     start,
		EndDate:       end,
		Remark:        strings.TrimSpace(req.Remark),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) CreateOneOffItem(c *gin.Context) {
	var req oneOffItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	occurred, err := parseOptionalTime(req.OccurredAt, false)
	if err != nil || occurred == nil {
		AbortWithError(c, newValidationError("occurred_at", "invalid_occurred_at", "invalid occurred_at"))
		return
	}

	resp, err := s.ledgerSvc.AddOneOff(c.Request.Context(), ledgerdomain.OneOffItem{
		Kind:       ledgerdomain.OneOffKind(req.Kind),
		Category:   strings.TrimSpace(req.Category),
		Name:       strings.TrimSpace(req.Name),
		Amount:     req.Amount,
		OccurredAt: *occurred,
		Remark:     strings.TrimSpace(req.Remark),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteCostItem(c *gin.Context) {
	itemType, err := ledgerdomain.ParseItemType(c.Param("type"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	id, err := parseSnowflakeID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.ledgerSvc.Remove(c.Request.Context(), itemType, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseRange(c *gin.Context, startRaw, endRaw string) (start, end *time.Time, ok bool) {
	start, err := parseOptionalTime(startRaw, false)
	if err != nil {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return nil, nil, false
	}
	end, err = parseOptionalTime(endRaw, false)
	if err != nil {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return nil, nil, false
	}
	return start, end, true
}
