package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caltrack/backend/internal/domain"
	"github.com/caltrack/backend/internal/usecase"
)

// NutritionStatusHeader is set on search responses served without the
// external nutrition API
const NutritionStatusHeader = "X-Nutrition-Status"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	nutrition *usecase.NutritionService
	entries   *usecase.EntryService
	reports   *usecase.ReportService
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	nutrition *usecase.NutritionService,
	entries *usecase.EntryService,
	reports *usecase.ReportService,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		nutrition: nutrition,
		entries:   entries,
		reports:   reports,
		logger:    logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "caltrack-backend",
		"version": "1.0.0",
	})
}

// SearchNutrition handles GET /api/nutrition/search?query=&amount=
func (h *Handler) SearchNutrition(c *gin.Context) {
	if h.nutrition == nil {
		respondMessage(c, http.StatusServiceUnavailable, "Nutrition service not configured")
		return
	}

	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respondMessage(c, http.StatusBadRequest, "Query parameter is required")
		return
	}

	result, err := h.nutrition.Search(c.Request.Context(), query, c.Query("amount"))
	if err != nil {
		h.logger.Error("nutrition search failed",
			zap.String("query", query),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to fetch nutrition data")
		return
	}

	if result.Status == domain.StatusUnavailable {
		c.Header(NutritionStatusHeader, string(domain.StatusUnavailable))
	}
	c.JSON(http.StatusOK, result.Candidates)
}

type estimateRequest struct {
	Name                string  `json:"name" binding:"required"`
	ProteinG            float64 `json:"protein_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FatTotalG           float64 `json:"fat_total_g"`
}

// EstimateNutrition handles POST /api/nutrition/estimate
func (h *Handler) EstimateNutrition(c *gin.Context) {
	if h.nutrition == nil {
		respondMessage(c, http.StatusServiceUnavailable, "Nutrition service not configured")
		return
	}

	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid estimate request")
		return
	}

	c.JSON(http.StatusOK, h.nutrition.EstimateCandidate(domain.MacroInput{
		Name:                req.Name,
		ProteinG:            req.ProteinG,
		CarbohydratesTotalG: req.CarbohydratesTotalG,
		FatTotalG:           req.FatTotalG,
	}))
}

// ListEntries handles GET /api/calories
func (h *Handler) ListEntries(c *gin.Context) {
	entries, err := h.entries.ListEntries(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetEntry handles GET /api/calories/:date
func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := h.entries.GetEntry(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// AddFoodItem handles POST /api/calories/:date/:mealType
func (h *Handler) AddFoodItem(c *gin.Context) {
	var input usecase.FoodItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid food item data")
		return
	}

	entry, err := h.entries.AddFoodItem(c.Request.Context(), c.Param("date"), c.Param("mealType"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveFoodItem handles DELETE /api/calories/:date/:mealType/:foodId
func (h *Handler) RemoveFoodItem(c *gin.Context) {
	foodID, err := strconv.Atoi(c.Param("foodId"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid food ID")
		return
	}

	entry, err := h.entries.RemoveFoodItem(c.Request.Context(), c.Param("date"), c.Param("mealType"), foodID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type targetRequest struct {
	Target int `json:"target"`
}

// GetTarget handles GET /api/calories/target
func (h *Handler) GetTarget(c *gin.Context) {
	target, err := h.entries.GetTarget(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"target": target})
}

// SetTarget handles PUT /api/calories/target
func (h *Handler) SetTarget(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid target")
		return
	}

	if err := h.entries.SetTarget(c.Request.Context(), req.Target); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"target": req.Target})
}

// WeeklyReport handles GET /api/reports/weekly
func (h *Handler) WeeklyReport(c *gin.Context) {
	today, ok := reportDay(c)
	if !ok {
		return
	}
	points, err := h.reports.Weekly(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// MonthlyReport handles GET /api/reports/monthly
func (h *Handler) MonthlyReport(c *gin.Context) {
	today, ok := reportDay(c)
	if !ok {
		return
	}
	points, err := h.reports.Monthly(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// MealReport handles GET /api/reports/meals
func (h *Handler) MealReport(c *gin.Context) {
	today, ok := reportDay(c)
	if !ok {
		return
	}
	averages, err := h.reports.MealBreakdown(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, averages)
}

// reportDay reads ?today=, defaulting to the server's current date
func reportDay(c *gin.Context) (time.Time, bool) {
	raw := c.Query("today")
	if raw == "" {
		return time.Now(), true
	}
	day, err := usecase.ValidateDate(raw)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// respondError maps domain errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidDate):
		respondMessage(c, http.StatusBadRequest, "Invalid date format. Expected YYYY-MM-DD")
	case errors.Is(err, domain.ErrInvalidMealType):
		respondMessage(c, http.StatusBadRequest, "Invalid meal type")
	case errors.Is(err, domain.ErrInvalidRequest):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrEntryNotFound):
		respondMessage(c, http.StatusNotFound, "Entry not found")
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}
