package api

import (
	"errors"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/repository"
	"neonfit/studio-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SeedHandler imports the demo roster into an empty store.
type SeedHandler struct {
	seedService service.SeedService
	metrics     *metrics.Manager
}

func NewSeedHandler(seedService service.SeedService, m *metrics.Manager) *SeedHandler {
	return &SeedHandler{seedService: seedService, metrics: m}
}

// Seed godoc
// @Summary Import demo data (admin only)
// @Description Does nothing when any member exists. The failure notice is localized with ?lang=zh.
// @Tags Seed
// @Produce json
// @Param lang query string false "en or zh"
// @Success 200 {object} service.SeedResult
// @Failure 409 {object} gin.H "Import already in progress"
// @Failure 500 {object} gin.H "Import failed"
// @Security BearerAuth
// @Router /seed [post]
func (h *SeedHandler) Seed(c *gin.Context) {
	result, err := h.seedService.SeedSampleData(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSeedInProgress) {
			h.metrics.CounterRejectedBusy.WithLabelValues("seed").Inc()
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		if repository.IsNotConfigured(err) {
			respondError(c, err)
			return
		}
		log.Errorf("seed demo data: %v", err)
		abortWithError(c, http.StatusInternalServerError, service.SeedFailureMessage(advisor.ParseLanguage(c.Query("lang"))))
		return
	}
	c.JSON(http.StatusOK, result)
}
