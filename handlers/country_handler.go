package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/pagination"
	"github.com/worldpop/worldpop-api/services"
	"github.com/worldpop/worldpop-api/utils"
)

// CountryHandler serves the country catalogue endpoints.
type CountryHandler struct {
	service *services.PopulationService
	logger  *zap.Logger
}

// NewCountryHandler creates a new CountryHandler.
func NewCountryHandler(service *services.PopulationService, logger *zap.Logger) *CountryHandler {
	return &CountryHandler{service: service, logger: logger}
}

// List returns one page of countries. Paging parameters come from the query
// string and are normalized, never rejected.
func (h *CountryHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListCountries(r.Context(), pagination.FromQuery(r))
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, result)
}

// Get returns one country by ISO code.
func (h *CountryHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "countryCode"))
	country, err := h.service.GetCountryByCode(r.Context(), code)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, country)
}

// Search returns countries matching a name keyword.
func (h *CountryHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		_ = utils.WriteBadRequest(w, "keyword is required", nil)
		return
	}

	countries, err := h.service.SearchCountries(r.Context(), keyword)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, countries)
}

// Top returns the N most populous countries.
func (h *CountryHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	countries, err := h.service.GetTopCountries(r.Context(), limit)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, countries)
}

// ByContinent returns all countries in a continent.
func (h *CountryHandler) ByContinent(w http.ResponseWriter, r *http.Request) {
	continent := chi.URLParam(r, "continent")
	countries, err := h.service.GetCountriesByContinent(r.Context(), continent)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, countries)
}

// History returns the yearly population history for a country.
func (h *CountryHandler) History(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "countryCode"))
	records, err := h.service.GetPopulationHistory(r.Context(), code)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, records)
}

// Create inserts a new country. Admin only; enforced by the router.
func (h *CountryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var country models.Country
	if err := json.NewDecoder(r.Body).Decode(&country); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	country.CountryCode = strings.ToUpper(country.CountryCode)
	if err := utils.ValidateStruct(country); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	created, err := h.service.CreateCountry(r.Context(), &country)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteCreated(w, created)
}

// Update replaces the data of an existing country. Admin only.
func (h *CountryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var country models.Country
	if err := json.NewDecoder(r.Body).Decode(&country); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	country.CountryCode = strings.ToUpper(chi.URLParam(r, "countryCode"))
	if err := utils.ValidateStruct(country); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	updated, err := h.service.UpdateCountry(r.Context(), &country)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}
	_ = utils.WriteOK(w, updated)
}

// Delete removes a country. Admin only.
func (h *CountryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "countryCode"))
	if err := h.service.DeleteCountry(r.Context(), code); err != nil {
		RespondError(w, h.logger, err)
		return
	}
	utils.WriteNoContent(w)
}
