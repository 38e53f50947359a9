package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// putOverrideRequest sets the manual amount. A null amount stops this
// override from applying; an older stored override for the record, if any,
// applies again.
type putOverrideRequest struct {
	Amount *float64 `json:"amount"`
}

func (s *Server) PutOverride(c *gin.Context) {
	var req putOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	recordID := c.Param("record_id")
	if err := s.forecastSvc.UpsertOverride(c.Request.Context(), recordID, req.Amount); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"record_id": recordID, "amount": req.Amount}})
}
