package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/services"
	"github.com/worldpop/worldpop-api/utils"
)

// StatsHandler serves the aggregate statistics endpoints.
type StatsHandler struct {
	service *services.PopulationService
	logger  *zap.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *services.PopulationService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: logger}
}

// Overview returns the world total alongside per-continent aggregates.
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.GetTotalWorldPopulation(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	stats, err := h.service.GetContinentStatistics(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"totalPopulation": total,
		"continentStats":  stats,
	})
}

// Continents returns the per-continent aggregates.
func (h *StatsHandler) Continents(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetContinentStatistics(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, stats)
}

// Total returns the world population sum.
func (h *StatsHandler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.GetTotalWorldPopulation(r.Context())
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, map[string]int64{"totalPopulation": total})
}
