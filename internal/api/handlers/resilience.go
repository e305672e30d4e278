package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"outage-resilience/internal/api/models"
	"outage-resilience/internal/config"
	"outage-resilience/internal/data"
	"outage-resilience/internal/metrics"
	"outage-resilience/internal/model"
	"outage-resilience/internal/report"
	"outage-resilience/internal/resilience"
	"outage-resilience/internal/store"
)

const defaultListLimit = 20

// RunStore persists completed runs. *store.Repository satisfies it.
type RunStore interface {
	SaveRun(run *store.StoredRun) error
	GetRun(id string) (*store.StoredRun, error)
	ListRuns(limit int) ([]store.StoredRun, error)
}

// ResilienceHandler handles resilience-related requests
type ResilienceHandler struct {
	engine     *resilience.Engine
	cache      *data.ResultCache
	runs       RunStore
	metrics    *metrics.Registry
	batteryDir string
}

// NewResilienceHandler creates a new resilience handler. cache, runs and reg may be nil.
func NewResilienceHandler(engine *resilience.Engine, cache *data.ResultCache, runs RunStore, reg *metrics.Registry, batteryDir string) *ResilienceHandler {
	if engine == nil {
		engine = resilience.New(0)
	}
	return &ResilienceHandler{
		engine:     engine,
		cache:      cache,
		runs:       runs,
		metrics:    reg,
		batteryDir: batteryDir,
	}
}

// RunResilience handles POST /api/v1/resilience
func (h *ResilienceHandler) RunResilience(c *gin.Context) {
	var req models.ResilienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	battery, err := h.resolveBattery(req.BatteryFile, req.Battery)
	if err != nil {
		writeBatteryError(c, err)
		return
	}
	params := battery.ToModelParams()
	name := req.Name
	if name == "" {
		name = battery.Name
	}

	key := data.GenerateCacheKey(params, req.Series)
	if entry, ok := h.cache.Get(key); ok {
		h.metrics.ObserveCache(true)
		log.Debug().Str("run_id", entry.RunID).Msg("ResilienceHandler: cache hit")
		resp := buildResponse(entry.RunID, name, params, entry.Result, req.Options)
		resp.Cached = true
		c.JSON(http.StatusOK, resp)
		return
	}
	h.metrics.ObserveCache(false)

	res, err := h.compute(params, req.Series)
	if err != nil {
		writeComputeError(c, err)
		return
	}

	id := uuid.NewString()
	h.save(id, name, params, res)
	h.cache.Set(key, data.CacheEntry{RunID: id, Name: name, Battery: params, Result: res})

	c.JSON(http.StatusOK, buildResponse(id, name, params, res, req.Options))
}

// GetRun handles GET /api/v1/resilience/:id
func (h *ResilienceHandler) GetRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	resp := buildResponse(run.id, run.name, run.battery, run.result, models.ResilienceOptions{IncludeCurves: true})
	c.JSON(http.StatusOK, resp)
}

// GetHourly handles GET /api/v1/resilience/:id/hourly. ?format=csv returns the survival CSV.
func (h *ResilienceHandler) GetHourly(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	res := run.result

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := report.SurvivalCSV(&buf, res); err != nil {
			abortWithError(c, http.StatusInternalServerError, "REPORT_ERROR", err.Error())
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+run.id+`_survival.csv"`)
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, models.HourlySurvivalResponse{
		ID:             run.id,
		HourlySurvival: res.SurvivalHours,
	})
}

// ListRuns handles GET /api/v1/resilience
func (h *ResilienceHandler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		abortWithError(c, http.StatusNotImplemented, "STORE_DISABLED", "run storage is not configured")
		return
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}

	resp := models.RunListResponse{Runs: make([]models.RunInfo, 0, len(runs))}
	for _, r := range runs {
		resp.Runs = append(resp.Runs, models.RunInfo{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Summary: models.ResilienceSummary{
				Name:       r.Name,
				Battery:    specsOf(r.Battery()),
				Hours:      r.Hours,
				MinHours:   r.MinHours,
				MaxHours:   r.MaxHours,
				AvgHours:   r.AvgHours,
				Degenerate: r.Degenerate,
			},
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Compare handles POST /api/v1/resilience/compare
func (h *ResilienceHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	base, err := h.resolveBattery(req.BatteryFile, req.BaseBattery)
	if err != nil {
		writeBatteryError(c, err)
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, variation := range req.Variations {
		params := applyOverride(base, variation.Battery).ToModelParams()

		res, err := h.compute(params, req.Series)
		if err != nil {
			log.Debug().Err(err).Str("variation", variation.Name).Msg("ResilienceHandler: variation failed")
			comparison = append(comparison, models.ComparisonResult{
				Name:  variation.Name,
				Error: err.Error(),
			})
			continue
		}

		summary := buildSummary(variation.Name, params, res)
		comparison = append(comparison, models.ComparisonResult{
			Name:    variation.Name,
			Summary: &summary,
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// Helper methods

// resolveBattery merges the request battery over its preset and fills the default efficiency.
func (h *ResilienceHandler) resolveBattery(preset string, inline models.BatteryConfig) (config.BatteryConfig, error) {
	battery := toConfigBattery(inline)
	if preset != "" {
		loaded, err := loadPreset(h.batteryDir, preset)
		if err != nil {
			return config.BatteryConfig{}, err
		}
		battery = config.MergeBattery(loaded, battery)
	}
	if battery.RoundTripEfficiency == 0 {
		battery.RoundTripEfficiency = model.DefaultRoundTripEfficiency
	}
	return battery, nil
}

func (h *ResilienceHandler) compute(params model.BatteryParams, series model.SiteSeries) (*resilience.Result, error) {
	started := time.Now()
	res, err := h.engine.Compute(params, series)
	if err != nil {
		if errors.Is(err, resilience.ErrInvalidInput) {
			h.metrics.ObserveRun(metrics.OutcomeInvalid, 0, time.Since(started))
		}
		return nil, err
	}

	outcome := metrics.OutcomeOK
	simulated := res.Len()
	if res.Degenerate {
		outcome = metrics.OutcomeDegenerate
		simulated = 0
	}
	h.metrics.ObserveRun(outcome, simulated, time.Since(started))
	return res, nil
}

// save persists a run. Failures are logged and do not fail the request.
func (h *ResilienceHandler) save(id, name string, params model.BatteryParams, res *resilience.Result) {
	if h.runs == nil {
		return
	}
	run, err := store.NewStoredRun(id, name, params, res)
	if err == nil {
		err = h.runs.SaveRun(run)
	}
	if err != nil {
		log.Warn().Err(err).Str("run_id", id).Msg("ResilienceHandler: failed to store run")
	}
}

// runView is a completed run read back from the store or the cache.
type runView struct {
	id      string
	name    string
	battery model.BatteryParams
	result  *resilience.Result
}

// loadRun looks the run up in the store, then in the cache, so IDs returned
// without persistence stay readable until their cache entry expires.
func (h *ResilienceHandler) loadRun(c *gin.Context) (*runView, bool) {
	id := c.Param("id")

	if h.runs != nil {
		run, err := h.runs.GetRun(id)
		switch {
		case err == nil:
			res, err := run.Result()
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
				return nil, false
			}
			return &runView{id: run.ID, name: run.Name, battery: run.Battery(), result: res}, true
		case !errors.Is(err, store.ErrNotFound):
			abortWithError(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return nil, false
		}
	}

	if entry, ok := h.cache.GetByRunID(id); ok {
		return &runView{id: entry.RunID, name: entry.Name, battery: entry.Battery, result: entry.Result}, true
	}

	abortWithError(c, http.StatusNotFound, "RUN_NOT_FOUND", "no run with id "+id)
	return nil, false
}

func buildResponse(id, name string, params model.BatteryParams, res *resilience.Result, opts models.ResilienceOptions) models.ResilienceResponse {
	resp := models.ResilienceResponse{
		ID:      id,
		Status:  "completed",
		Summary: buildSummary(name, params, res),
	}
	if opts.IncludeHourly {
		resp.HourlySurvival = res.SurvivalHours
	}
	if opts.IncludeCurves {
		resp.Curves = &models.SurvivalCurves{
			DurationThresholds: res.DurationThresholds,
			Overall:            res.SurvivalProbability,
			ByMonth:            res.ByMonth.Rows(),
			ByHourOfDay:        res.ByHourOfDay.Rows(),
		}
	}
	return resp
}

func buildSummary(name string, params model.BatteryParams, res *resilience.Result) models.ResilienceSummary {
	return models.ResilienceSummary{
		Name:       name,
		Battery:    specsOf(params),
		Hours:      res.Len(),
		MinHours:   res.MinHours,
		MaxHours:   res.MaxHours,
		AvgHours:   res.AvgHours,
		Degenerate: res.Degenerate,
	}
}

func specsOf(p model.BatteryParams) models.BatterySpecs {
	return models.BatterySpecs{
		EnergyCapacityKWh:   p.EnergyCapacityKWh,
		PowerCapacityKW:     p.PowerCapacityKW,
		RoundTripEfficiency: p.RoundTripEfficiency,
	}
}

func toConfigBattery(b models.BatteryConfig) config.BatteryConfig {
	return config.BatteryConfig{
		Name:                b.Name,
		EnergyCapacityKWh:   b.EnergyCapacityKWh,
		PowerCapacityKW:     b.PowerCapacityKW,
		RoundTripEfficiency: b.RoundTripEfficiency,
	}
}

// applyOverride replaces every field present in o, zeros included.
func applyOverride(base config.BatteryConfig, o models.BatteryOverride) config.BatteryConfig {
	out := base
	if o.EnergyCapacityKWh != nil {
		out.EnergyCapacityKWh = *o.EnergyCapacityKWh
	}
	if o.PowerCapacityKW != nil {
		out.PowerCapacityKW = *o.PowerCapacityKW
	}
	if o.RoundTripEfficiency != nil {
		out.RoundTripEfficiency = *o.RoundTripEfficiency
	}
	return out
}

func writeBatteryError(c *gin.Context, err error) {
	if errors.Is(err, errPresetNotFound) {
		abortWithError(c, http.StatusBadRequest, "BATTERY_NOT_FOUND", err.Error())
		return
	}
	abortWithError(c, http.StatusBadRequest, "INVALID_BATTERY", err.Error())
}

func writeComputeError(c *gin.Context, err error) {
	if errors.Is(err, resilience.ErrInvalidInput) {
		abortWithError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return
	}
	abortWithError(c, http.StatusInternalServerError, "RESILIENCE_ERROR", err.Error())
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
