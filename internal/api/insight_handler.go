package api

import (
	"bytes"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/export"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/service"
	"neonfit/studio-tracker/internal/stats"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// InsightHandler serves the read-only views derived from a member's workouts.
type InsightHandler struct {
	memberService service.MemberService
	coach         *advisor.Coach
	metrics       *metrics.Manager
}

func NewInsightHandler(memberService service.MemberService, coach *advisor.Coach, m *metrics.Manager) *InsightHandler {
	return &InsightHandler{memberService: memberService, coach: coach, metrics: m}
}

// Stats godoc
// @Summary Metric cards of a member
// @Tags Insights
// @Produce json
// @Param memberId path string true "Member ID"
// @Param month query string false "Month counted by monthlyCount (YYYY-MM), defaults to the current one"
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /members/{memberId}/stats [get]
func (h *InsightHandler) Stats(c *gin.Context) {
	month := c.DefaultQuery("month", stats.CurrentMonth())
	if _, err := time.Parse(stats.MonthLayout, month); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: month %q must be YYYY-MM", month))
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}

	summary := stats.Summarize(member.Workouts, month)
	c.JSON(http.StatusOK, StatsResponse{
		Summary:            summary,
		TotalVolumeDisplay: stats.FormatVolume(summary.TotalVolume),
	})
}

// Chart godoc
// @Summary Progress chart data of a member
// @Description exercise may repeat or hold a comma separated list; without it the default selection is used.
// @Tags Insights
// @Produce json
// @Param memberId path string true "Member ID"
// @Param metric query string false "weight or volume"
// @Param exercise query []string false "Selected exercises"
// @Success 200 {object} stats.Chart
// @Security BearerAuth
// @Router /members/{memberId}/chart [get]
func (h *InsightHandler) Chart(c *gin.Context) {
	metric, err := stats.ParseMetric(c.Query("metric"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	var selected []string
	for _, raw := range c.QueryArray("exercise") {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				selected = append(selected, name)
			}
		}
	}

	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.BuildChart(member.Workouts, metric, selected))
}

// Calendar godoc
// @Summary Month grid of training days
// @Tags Insights
// @Produce json
// @Param memberId path string true "Member ID"
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} CalendarResponse
// @Security BearerAuth
// @Router /members/{memberId}/calendar [get]
func (h *InsightHandler) Calendar(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}

	cal, err := stats.BuildCalendar(member.Workouts, c.DefaultQuery("month", stats.CurrentMonth()))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	c.JSON(http.StatusOK, CalendarResponse{Calendar: cal, Weeks: cal.Weeks()})
}

// Sessions godoc
// @Summary Workouts grouped by date
// @Tags Insights
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {array} domain.TrainingSession
// @Security BearerAuth
// @Router /members/{memberId}/sessions [get]
func (h *InsightHandler) Sessions(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats.Sessions(member.Workouts))
}

// Export godoc
// @Summary Training history as an xlsx workbook
// @Tags Insights
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param memberId path string true "Member ID"
// @Success 200 {file} file
// @Failure 404 {object} gin.H "No workout data to export"
// @Security BearerAuth
// @Router /members/{memberId}/export [get]
func (h *InsightHandler) Export(c *gin.Context) {
	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteHistory(&buf, member); err != nil {
		if errors.Is(err, export.ErrNoWorkouts) {
			abortWithError(c, http.StatusNotFound, export.NoWorkoutsMessage)
			return
		}
		log.Errorf("export history of member %s: %v", member.ID, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to build the export")
		return
	}

	fileName := export.HistoryFileName(member.Name, time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Advice godoc
// @Summary Coaching advice for a member
// @Description A missing API key answers 200 with status "unconfigured"; a failed call answers 502 with the failure text.
// @Tags Insights
// @Accept json
// @Produce json
// @Param memberId path string true "Member ID"
// @Param request body AdviceRequest false "Question and language"
// @Success 200 {object} AdviceResponse
// @Failure 409 {object} gin.H "Advice for this member already in progress"
// @Failure 502 {object} AdviceResponse
// @Security BearerAuth
// @Router /members/{memberId}/advice [post]
func (h *InsightHandler) Advice(c *gin.Context) {
	var req AdviceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}
	lang := advisor.ParseLanguage(req.Language)

	member, err := h.memberService.GetMember(c.Request.Context(), c.Param("memberId"))
	if err != nil {
		respondError(c, err)
		return
	}

	advice, err := h.coach.Advise(c.Request.Context(), member, req.Question, lang)
	switch {
	case err == nil:
		h.metrics.CounterAdviceCalls.WithLabelValues("ok").Inc()
		c.JSON(http.StatusOK, AdviceResponse{Status: "ok", Advice: advice.Text, Language: string(lang)})
	case errors.Is(err, advisor.ErrMissingAPIKey):
		h.metrics.CounterAdviceCalls.WithLabelValues("unconfigured").Inc()
		c.JSON(http.StatusOK, AdviceResponse{Status: "unconfigured", Advice: advice.Text, Language: string(lang)})
	case errors.Is(err, advisor.ErrAdviceInProgress):
		h.metrics.CounterRejectedBusy.WithLabelValues("advice").Inc()
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		h.metrics.CounterAdviceCalls.WithLabelValues("failed").Inc()
		c.JSON(http.StatusBadGateway, AdviceResponse{Status: "failed", Advice: advice.Text, Language: string(lang)})
	}
}
