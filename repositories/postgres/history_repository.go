package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/repositories"
)

// HistoryRepository implements repositories.PopulationHistoryRepository
type HistoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new population history repository
func NewHistoryRepository(db *DB, logger *zap.Logger) repositories.PopulationHistoryRepository {
	return &HistoryRepository{db: db, logger: logger}
}

// GetByCountryCode retrieves the yearly history for a country, oldest first.
func (r *HistoryRepository) GetByCountryCode(ctx context.Context, code string) ([]models.PopulationRecord, error) {
	query := `
		SELECT year, population, growth_rate
		FROM population_history
		WHERE country_code = $1
		ORDER BY year
	`

	rows, err := r.db.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("failed to query population history: %w", err)
	}
	defer rows.Close()

	var records []models.PopulationRecord
	for rows.Next() {
		var rec models.PopulationRecord
		if err := rows.Scan(&rec.Year, &rec.Population, &rec.GrowthRate); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history records: %w", err)
	}
	return records, nil
}

// Insert adds one yearly record for a country.
func (r *HistoryRepository) Insert(ctx context.Context, code string, record models.PopulationRecord) error {
	query := `
		INSERT INTO population_history (country_code, year, population, growth_rate)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query, code, record.Year, record.Population, record.GrowthRate); err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	r.logger.Debug("history record inserted",
		zap.String("code", code),
		zap.Int("year", record.Year))
	return nil
}
