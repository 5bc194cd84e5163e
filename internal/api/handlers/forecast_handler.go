package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"countcast-backend/internal/domain"
	"countcast-backend/internal/forecast"
	"countcast-backend/internal/service"
)

type ForecastHandler struct {
	forecastService *service.ForecastService
}

func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// GetPlanner returns the replenishment forecast for every known SKU. The
// reference date defaults to the current day and can be pinned with ?date=
// for reproducible reports.
func (h *ForecastHandler) GetPlanner(c *gin.Context) {
	today := h.referenceDate(c)

	rows, err := h.forecastService.GetPlanner(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute forecast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"as_of": today.Format(domain.DateLayout),
		"rows":  rows,
	})
}

// GetTrend returns the velocity history for one SKU over a rolling or
// custom window
func (h *ForecastHandler) GetTrend(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	q := forecast.TrendQuery{
		Timeframe: forecast.Timeframe(c.DefaultQuery("timeframe", string(forecast.Timeframe3M))),
		Now:       h.referenceDate(c),
	}
	switch q.Timeframe {
	case forecast.Timeframe3M, forecast.Timeframe6M, forecast.Timeframe1Y, forecast.TimeframeCustom:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "timeframe must be one of 3m, 6m, 1y, custom"})
		return
	}

	if start, ok := forecast.ParseDate(c.Query("start")); ok {
		q.Start = &start
	}
	if end, ok := forecast.ParseDate(c.Query("end")); ok {
		q.End = &end
	}

	report, err := h.forecastService.GetTrend(c.Request.Context(), sku, q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute trend"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetLeadTime returns vendor lead-time and ETA-variance statistics
func (h *ForecastHandler) GetLeadTime(c *gin.Context) {
	report, err := h.forecastService.GetLeadTime(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute lead times"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportPlanner streams the planner report as a CSV attachment
func (h *ForecastHandler) ExportPlanner(c *gin.Context) {
	payload, filename, err := h.forecastService.ExportPlannerCSV(c.Request.Context(), h.referenceDate(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export forecast"})
		return
	}
	h.sendCSV(c, filename, payload)
}

// ExportLeadTime streams the lead-time report as a CSV attachment
func (h *ForecastHandler) ExportLeadTime(c *gin.Context) {
	payload, filename, err := h.forecastService.ExportLeadTimeCSV(c.Request.Context(), h.referenceDate(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export lead times"})
		return
	}
	h.sendCSV(c, filename, payload)
}

func (h *ForecastHandler) sendCSV(c *gin.Context, filename string, payload []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", payload)
}

func (h *ForecastHandler) referenceDate(c *gin.Context) time.Time {
	if date, ok := forecast.ParseDate(c.Query("date")); ok {
		return date
	}
	return forecast.DateOnly(time.Now().UTC())
}
