package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/pagination"
	"github.com/worldpop/worldpop-api/repositories"
)

const maxTopCountries = 100

// countryNotFound builds a fresh not-found error so the shared sentinel's
// detail map is never mutated. It still matches ErrCountryNotFound under
// errors.Is.
func countryNotFound(code string) *DomainError {
	return NewDomainError(ErrorTypeNotFound, "country not found", nil).
		WithDetail("countryCode", code)
}

// PopulationService exposes the country population queries. Listing goes
// through the pagination normalizer; everything else is a direct repository
// round trip.
type PopulationService struct {
	countries  repositories.CountryRepository
	history    repositories.PopulationHistoryRepository
	normalizer *pagination.Normalizer
	logger     *zap.Logger
	now        func() time.Time
}

// NewPopulationService creates a new PopulationService.
func NewPopulationService(
	countries repositories.CountryRepository,
	history repositories.PopulationHistoryRepository,
	normalizer *pagination.Normalizer,
	logger *zap.Logger,
) *PopulationService {
	return &PopulationService{
		countries:  countries,
		history:    history,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}

// ListCountries returns one page of countries ordered by name.
func (s *PopulationService) ListCountries(ctx context.Context, req pagination.Request) (*pagination.Result[models.Country], error) {
	result, err := pagination.Paginate[models.Country](ctx, s.normalizer, req, s.countries)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "country listing failed", err)
	}
	return result, nil
}

// GetCountryByCode returns one country or ErrCountryNotFound.
func (s *PopulationService) GetCountryByCode(ctx context.Context, code string) (*models.Country, error) {
	country, err := s.countries.GetByCode(ctx, code)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "country lookup failed", err)
	}
	if country == nil {
		return nil, countryNotFound(code)
	}
	return country, nil
}

// GetCountriesByContinent returns all countries in a continent.
func (s *PopulationService) GetCountriesByContinent(ctx context.Context, continent string) ([]models.Country, error) {
	countries, err := s.countries.GetByContinent(ctx, continent)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "continent lookup failed", err)
	}
	return countries, nil
}

// SearchCountries returns countries whose name matches the keyword.
func (s *PopulationService) SearchCountries(ctx context.Context, keyword string) ([]models.Country, error) {
	countries, err := s.countries.SearchByName(ctx, keyword)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "country search failed", err)
	}
	return countries, nil
}

// GetTopCountries returns the limit most populous countries. The limit is
// clamped to a sane range rather than rejected, matching the paging policy.
func (s *PopulationService) GetTopCountries(ctx context.Context, limit int) ([]models.Country, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > maxTopCountries {
		s.logger.Warn("top-countries limit clamped", zap.Int("requested", limit))
		limit = maxTopCountries
	}
	countries, err := s.countries.TopByPopulation(ctx, limit)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "top countries query failed", err)
	}
	return countries, nil
}

// GetContinentStatistics aggregates population stats per continent.
func (s *PopulationService) GetContinentStatistics(ctx context.Context) ([]models.ContinentStat, error) {
	stats, err := s.countries.ContinentStats(ctx)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "continent statistics failed", err)
	}
	return stats, nil
}

// GetTotalWorldPopulation returns the world population sum.
func (s *PopulationService) GetTotalWorldPopulation(ctx context.Context) (int64, error) {
	total, err := s.countries.TotalPopulation(ctx)
	if err != nil {
		return 0, NewDomainError(ErrorTypeInternal, "total population query failed", err)
	}
	return total, nil
}

// CreateCountry inserts a new country row.
func (s *PopulationService) CreateCountry(ctx context.Context, country *models.Country) (*models.Country, error) {
	existing, err := s.countries.GetByCode(ctx, country.CountryCode)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "country lookup failed", err)
	}
	if existing != nil {
		return nil, NewDomainError(ErrorTypeConflict, "country code already exists", nil).
			WithDetail("countryCode", country.CountryCode)
	}

	now := s.now()
	country.CreatedAt = now
	country.UpdatedAt = now
	if err := s.countries.Insert(ctx, country); err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "country creation failed", err)
	}
	return country, nil
}

// UpdateCountry updates an existing country row by code.
func (s *PopulationService) UpdateCountry(ctx context.Context, country *models.Country) (*models.Country, error) {
	country.UpdatedAt = s.now()
	if err := s.countries.Update(ctx, country); err != nil {
		if existing, lookupErr := s.countries.GetByCode(ctx, country.CountryCode); lookupErr == nil && existing == nil {
			return nil, countryNotFound(country.CountryCode)
		}
		return nil, NewDomainError(ErrorTypeInternal, "country update failed", err)
	}
	return country, nil
}

// DeleteCountry removes a country row by code.
func (s *PopulationService) DeleteCountry(ctx context.Context, code string) error {
	affected, err := s.countries.Delete(ctx, code)
	if err != nil {
		return NewDomainError(ErrorTypeInternal, "country deletion failed", err)
	}
	if affected == 0 {
		return countryNotFound(code)
	}
	return nil
}

// GetPopulationHistory returns the yearly history for a country. When no rows
// exist a synthesized sample series is returned so charts always render.
func (s *PopulationService) GetPopulationHistory(ctx context.Context, code string) ([]models.PopulationRecord, error) {
	records, err := s.history.GetByCountryCode(ctx, code)
	if err != nil {
		return nil, NewDomainError(ErrorTypeInternal, "history lookup failed", err)
	}
	if len(records) == 0 {
		return sampleHistory(code), nil
	}
	return records, nil
}

// sampleHistory synthesizes a deterministic six-year series for countries
// without stored history.
func sampleHistory(code string) []models.PopulationRecord {
	var seed int64
	for _, c := range code {
		seed = seed*31 + int64(c)
	}

	base := 10_000_000 + (seed%90)*1_000_000
	records := make([]models.PopulationRecord, 0, 6)
	for year := 2018; year <= 2023; year++ {
		rate := float64((seed+int64(year))%30-10) / 10.0 // -1.0% .. 1.9%
		base = int64(float64(base) * (1 + rate/100))
		records = append(records, models.PopulationRecord{
			Year:       year,
			Population: base,
			GrowthRate: rate,
		})
	}
	return records
}
