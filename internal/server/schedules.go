package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	forecastdomain "github.com/smallbiznis/runway/internal/forecast/domain"
)

type saveScheduleStage struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
	Date  string  `json:"date"`
}

type saveScheduleRequest struct {
	TemplateName string              `json:"template_name"`
	Stages       []saveScheduleStage `json:"stages"`
}

func (s *Server) GetProjectSchedule(c *gin.Context) {
	lines, err := s.forecastSvc.ProjectSchedule(c.Request.Context(), c.Param("record_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lines})
}

func (s *Server) SaveProjectSchedule(c *gin.Context) {
	var req saveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	stages := make([]forecastdomain.ScheduleStageRequest, 0, len(req.Stages))
	for _, st := range req.Stages {
		date, err := parseOptionalTime(st.Date, false)
		if err != nil {
			AbortWithError(c, newValidationError("stages.date", "invalid_date", "invalid stage date"))
			return
		}
		stages = append(stages, forecastdomain.ScheduleStageRequest{
			Name:  strings.TrimSpace(st.Name),
			Ratio: st.Ratio,
			Date:  date,
		})
	}

	saved, err := s.forecastSvc.SaveSchedule(c.Request.Context(), forecastdomain.SaveScheduleRequest{
		RecordID:     c.Param("record_id"),
		TemplateName: strings.TrimSpace(req.TemplateName),
		Stages:       stages,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved})
}
