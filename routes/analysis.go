package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/CCMKTGGP/brand-visibility-tracker/db"
	"github.com/CCMKTGGP/brand-visibility-tracker/models"
	"github.com/CCMKTGGP/brand-visibility-tracker/services"

	"github.com/gin-gonic/gin"
)

// AnalyzeStageRouteHandler runs the scoring pipeline for one (brand, model,
// stage) and stores the result.
func AnalyzeStageRouteHandler(c *gin.Context) {
	var req struct {
		Brand models.BrandProfile `json:"brand" binding:"required"`
		Model string              `json:"model" binding:"required"`
		Stage string              `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}
	if req.Brand.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Brand name is required"})
		return
	}

	stage, err := models.ParseFunnelStage(req.Stage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := services.AnalyzeStage(c.Request.Context(), req.Brand, req.Model, stage)
	if err != nil {
		var noPrompts *services.NoPromptsForStageError
		var allFailed *services.AllPromptsFailedError
		switch {
		case errors.As(err, &noPrompts):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.As(err, &allFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis unavailable for this stage: " + err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze stage"})
		}
		return
	}

	if err := db.SaveAnalysis(c.Request.Context(), analysis); err != nil {
		log.Printf("Failed to persist analysis %s: %v", analysis.RunID, err)
	}

	c.JSON(http.StatusOK, analysis)
}

// GetBrandAnalysesRouteHandler returns stored analyses for a brand, most
// recent first.
func GetBrandAnalysesRouteHandler(c *gin.Context) {
	brand := c.Param("brand")
	if brand == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Brand is required"})
		return
	}

	analyses, err := db.GetAnalysesForBrand(c.Request.Context(), brand)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// GetLatestAnalysisRouteHandler returns the most recent analysis for one
// (brand, model, stage) triple.
func GetLatestAnalysisRouteHandler(c *gin.Context) {
	brand := c.Param("brand")
	model := c.Query("model")
	stageParam := c.Query("stage")
	if brand == "" || model == "" || stageParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand, model and stage are required"})
		return
	}

	stage, err := models.ParseFunnelStage(stageParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := db.GetLatestAnalysis(c.Request.Context(), brand, model, stage)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis)
}
