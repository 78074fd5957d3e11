package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/services"
	"github.com/justsurfingit/jobhunter/internal/stats"
)

type StatsHandler struct {
	JobService *services.JobService
}

func NewStatsHandler(j *services.JobService) *StatsHandler {
	return &StatsHandler{JobService: j}
}

// Summary is GET /jobs/stats: the five dashboard counters.
func (h *StatsHandler) Summary(c *gin.Context) {
	s, err := h.JobService.Stats(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Pool is GET /jobs/stats/:card?period=month
func (h *StatsHandler) Pool(c *gin.Context) {
	verr := &apperrors.ValidationError{}
	card, err := stats.ParseCard(c.Param("card"))
	if err != nil {
		verr.Add("card", err.Error())
	}
	period, err := filter.ParsePeriod(c.Query("period"))
	if err != nil {
		verr.Add("period", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		respondError(c, err)
		return
	}
	jobs, err := h.JobService.Pool(c.Request.Context(), userID(c), card, period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}
