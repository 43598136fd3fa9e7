package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/repositories"
)

// CountryRepository implements the repositories.CountryRepository interface
type CountryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCountryRepository creates a new country repository
func NewCountryRepository(db *DB, logger *zap.Logger) repositories.CountryRepository {
	return &CountryRepository{db: db, logger: logger}
}

const countryColumns = `id, country_code, country_name, continent, population,
	area_sq_km, population_density, gdp_per_capita, life_expectancy, year,
	created_at, updated_at`

func scanCountry(row interface{ Scan(...interface{}) error }) (models.Country, error) {
	var c models.Country
	err := row.Scan(
		&c.ID,
		&c.CountryCode,
		&c.CountryName,
		&c.Continent,
		&c.Population,
		&c.AreaSqKm,
		&c.PopulationDensity,
		&c.GDPPerCapita,
		&c.LifeExpectancy,
		&c.Year,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *CountryRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]models.Country, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	var countries []models.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate countries: %w", err)
	}
	return countries, nil
}

// CountAll returns the total number of countries.
func (r *CountryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM country_population`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return count, nil
}

// FetchSlice retrieves countries ordered by country name.
func (r *CountryRepository) FetchSlice(ctx context.Context, offset, limit int) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + `
		FROM country_population ORDER BY country_name LIMIT $1 OFFSET $2`
	return r.queryMany(ctx, query, limit, offset)
}

// GetByCode retrieves a country by ISO code. Returns nil, nil when absent.
func (r *CountryRepository) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	query := `SELECT ` + countryColumns + ` FROM country_population WHERE country_code = $1`

	c, err := scanCountry(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get country: %w", err)
	}
	return &c, nil
}

// GetByContinent retrieves all countries in a continent.
func (r *CountryRepository) GetByContinent(ctx context.Context, continent string) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + `
		FROM country_population WHERE continent = $1 ORDER BY country_name`
	return r.queryMany(ctx, query, continent)
}

// SearchByName retrieves countries whose name matches the keyword.
func (r *CountryRepository) SearchByName(ctx context.Context, keyword string) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + `
		FROM country_population WHERE country_name ILIKE '%' || $1 || '%' ORDER BY country_name`
	return r.queryMany(ctx, query, keyword)
}

// TopByPopulation retrieves the limit most populous countries.
func (r *CountryRepository) TopByPopulation(ctx context.Context, limit int) ([]models.Country, error) {
	query := `SELECT ` + countryColumns + `
		FROM country_population ORDER BY population DESC LIMIT $1`
	return r.queryMany(ctx, query, limit)
}

// ContinentStats aggregates country count and population per continent.
func (r *CountryRepository) ContinentStats(ctx context.Context) ([]models.ContinentStat, error) {
	query := `
		SELECT continent, COUNT(*), COALESCE(SUM(population), 0), COALESCE(AVG(population), 0)
		FROM country_population
		GROUP BY continent
		ORDER BY SUM(population) DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query continent stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ContinentStat
	for rows.Next() {
		var s models.ContinentStat
		if err := rows.Scan(&s.Continent, &s.CountryCount, &s.TotalPopulation, &s.AvgPopulation); err != nil {
			return nil, fmt.Errorf("failed to scan continent stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate continent stats: %w", err)
	}
	return stats, nil
}

// TotalPopulation returns the world population sum.
func (r *CountryRepository) TotalPopulation(ctx context.Context) (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(population), 0) FROM country_population`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum population: %w", err)
	}
	return total, nil
}

// Insert creates a new country row.
func (r *CountryRepository) Insert(ctx context.Context, country *models.Country) error {
	query := `
		INSERT INTO country_population
			(country_code, country_name, continent, population, area_sq_km,
			 population_density, gdp_per_capita, life_expectancy, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		country.CountryCode,
		country.CountryName,
		country.Continent,
		country.Population,
		country.AreaSqKm,
		country.PopulationDensity,
		country.GDPPerCapita,
		country.LifeExpectancy,
		country.Year,
		country.CreatedAt,
		country.UpdatedAt,
	).Scan(&country.ID)

	if err != nil {
		return fmt.Errorf("failed to insert country: %w", err)
	}

	r.logger.Debug("country created", zap.String("code", country.CountryCode))
	return nil
}

// Update updates an existing country row by code.
func (r *CountryRepository) Update(ctx context.Context, country *models.Country) error {
	query := `
		UPDATE country_population
		SET country_name = $2, continent = $3, population = $4, area_sq_km = $5,
			population_density = $6, gdp_per_capita = $7, life_expectancy = $8,
			year = $9, updated_at = $10
		WHERE country_code = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		country.CountryCode,
		country.CountryName,
		country.Continent,
		country.Population,
		country.AreaSqKm,
		country.PopulationDensity,
		country.GDPPerCapita,
		country.LifeExpectancy,
		country.Year,
		country.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update country: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a country row by code. Returns the number of rows removed.
func (r *CountryRepository) Delete(ctx context.Context, code string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM country_population WHERE country_code = $1`, code)
	if err != nil {
		return 0, fmt.Errorf("failed to delete country: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read delete result: %w", err)
	}

	r.logger.Debug("country deleted", zap.String("code", code), zap.Int64("rows", affected))
	return affected, nil
}
