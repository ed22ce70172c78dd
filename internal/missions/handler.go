package missions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mission-backend/internal/catalog"
	"mission-backend/internal/shared/server/respond"
	"mission-backend/internal/validation"
)

// Handler wires HTTP handlers to the missions service.
type Handler struct {
	Svc *Service
	// ModelLimit guards routes that call the language model. Nil means unlimited.
	ModelLimit gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, modelLimit gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, ModelLimit: modelLimit}
}

// RegisterRoutes attaches mission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	limit := h.ModelLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	rg.POST("/missions", h.createMission)
	rg.GET("/missions", h.listMissions)
	rg.GET("/missions/:id", h.getMission)
	rg.DELETE("/missions/:id", h.deleteMission)
	rg.GET("/missions/:id/status", h.missionStatus)
	rg.POST("/missions/:id/analyze", limit, h.analyzeMission)
	rg.GET("/missions/:id/report", limit, h.missionReport)
	rg.POST("/missions/:id/simulations", h.recordSimulation)
	rg.GET("/missions/:id/simulations", h.listSimulations)
	rg.GET("/statistics", h.statistics)
	rg.GET("/catalog", h.catalog)
	rg.GET("/comparisons", h.compare)
}

type createMissionRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Destination       string   `json:"destination"`
	LaunchDate        string   `json:"launchDate"`
	DurationDays      int      `json:"durationDays"`
	CrewSize          int      `json:"crewSize"`
	SpacecraftType    string   `json:"spacecraftType"`
	PayloadMassKg     *float64 `json:"payloadMassKg"`
	FuelRequirementKg *float64 `json:"fuelRequirementKg"`
}

func (h *Handler) createMission(c *gin.Context) {
	var req createMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	input := validation.MissionInput{
		Name:              req.Name,
		Description:       req.Description,
		Destination:       catalog.Destination(strings.ToLower(strings.TrimSpace(req.Destination))),
		DurationDays:      req.DurationDays,
		CrewSize:          req.CrewSize,
		SpacecraftType:    catalog.SpacecraftType(strings.ToLower(strings.TrimSpace(req.SpacecraftType))),
		PayloadMassKg:     req.PayloadMassKg,
		FuelRequirementKg: req.FuelRequirementKg,
	}
	if launchDate, ok := validation.ParseLaunchDate(req.LaunchDate); ok {
		input.LaunchDate = launchDate
	} else {
		input.LaunchDateText = req.LaunchDate
	}
	if err := validation.ValidateMissionAt(input, h.Svc.now()); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			respond.ValidationError(c, vErr.Field, vErr.Message)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	mission, err := h.Svc.Create(c.Request.Context(), input)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create mission", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, mission)
}

func (h *Handler) listMissions(c *gin.Context) {
	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	missions := h.Svc.HistoryPage(c.Request.Context(), limit, offset)
	resp := make([]gin.H, 0, len(missions))
	for _, m := range missions {
		resp = append(resp, gin.H{
			"mission": m,
			"view":    NewMissionView(m),
		})
	}
	respond.OK(c, resp)
}

func (h *Handler) getMission(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	mission, err := h.Svc.Get(ctx, id)
	if err != nil {
		writeLookupError(c, err, "failed to fetch mission")
		return
	}
	latest, err := h.Svc.LatestAnalysis(ctx, id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch mission", nil)
		return
	}
	respond.OK(c, NewDetail(mission, latest))
}

func (h *Handler) deleteMission(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeLookupError(c, err, "failed to delete mission")
		return
	}
	respond.NoContent(c)
}

func (h *Handler) missionStatus(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	mission, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "failed to fetch mission status")
		return
	}
	var risk *string
	if mission.RiskLevel != nil {
		r := string(*mission.RiskLevel)
		risk = &r
	}
	respond.OK(c, gin.H{
		"missionId":        mission.ID,
		"name":             mission.Name,
		"status":           mission.Status,
		"feasibilityScore": mission.FeasibilityScore,
		"riskLevel":        risk,
		"createdAt":        mission.CreatedAt,
		"analyzedAt":       mission.AnalyzedAt,
	})
}

func (h *Handler) analyzeMission(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	result, err := h.Svc.Analyze(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "failed to analyze mission")
		return
	}
	respond.OK(c, result)
}

func (h *Handler) missionReport(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	result, err := h.Svc.Report(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "failed to generate report")
		return
	}
	if !result.Success {
		if result.Error == errAnalysisNotCompleted {
			respond.Error(c, http.StatusConflict, "analysis_not_completed", result.Error, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate report", nil)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) recordSimulation(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	var req SimulationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	result, err := h.Svc.RecordSimulation(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrInvalidSimulation) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		writeLookupError(c, err, "failed to record simulation")
		return
	}
	respond.JSON(c, http.StatusCreated, result)
}

func (h *Handler) listSimulations(c *gin.Context) {
	id, ok := missionID(c)
	if !ok {
		return
	}
	results, err := h.Svc.Simulations(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err, "failed to list simulations")
		return
	}
	respond.OK(c, results)
}

func (h *Handler) statistics(c *gin.Context) {
	respond.OK(c, h.Svc.Statistics(c.Request.Context()))
}

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// catalog lists the accepted form choices.
func (h *Handler) catalog(c *gin.Context) {
	destinations := make([]option, 0, len(catalog.Destinations()))
	for _, d := range catalog.Destinations() {
		destinations = append(destinations, option{Value: string(d), Label: d.Label()})
	}
	spacecraft := make([]option, 0, len(catalog.SpacecraftTypes()))
	for _, s := range catalog.SpacecraftTypes() {
		spacecraft = append(spacecraft, option{Value: string(s), Label: s.Label()})
	}
	respond.OK(c, gin.H{
		"destinations":    destinations,
		"spacecraftTypes": spacecraft,
		"riskLevels":      catalog.RiskLevels(),
	})
}

func (h *Handler) compare(c *gin.Context) {
	var ids []string
	for _, raw := range c.QueryArray("ids") {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" && uuid.Validate(id) == nil {
				ids = append(ids, id)
			}
		}
	}
	comparison, err := h.Svc.Compare(c.Request.Context(), ids)
	if err != nil {
		if errors.Is(err, ErrTooFewMissions) {
			respond.ValidationError(c, "ids", "Please select at least 2 missions to compare")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compare missions", nil)
		return
	}
	respond.OK(c, comparison)
}

func missionID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "mission id is required", nil)
		return "", false
	}
	if uuid.Validate(id) != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "mission not found", nil)
		return "", false
	}
	return id, true
}

func writeLookupError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "mission not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
}
