// Package repositories defines the data access interfaces consumed by the
// service layer. Implementations live in the postgres subpackage.
package repositories

import (
	"context"

	"github.com/worldpop/worldpop-api/models"
)

// UserRepository handles user account data operations. It is the credential
// store behind authentication: lookups are synchronous, uncached round trips.
type UserRepository interface {
	// Create inserts a new user and sets its generated ID.
	Create(ctx context.Context, user *models.User) error

	// GetByUsername retrieves a user by username. Returns nil, nil when absent.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByEmail retrieves a user by email. Returns nil, nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// CountAll returns the total number of users.
	CountAll(ctx context.Context) (int64, error)

	// FetchSlice retrieves users ordered by username.
	FetchSlice(ctx context.Context, offset, limit int) ([]models.User, error)
}

// CountryRepository handles country population data operations.
type CountryRepository interface {
	// CountAll returns the total number of countries.
	CountAll(ctx context.Context) (int64, error)

	// FetchSlice retrieves countries ordered by country name.
	FetchSlice(ctx context.Context, offset, limit int) ([]models.Country, error)

	// GetByCode retrieves a country by ISO code. Returns nil, nil when absent.
	GetByCode(ctx context.Context, code string) (*models.Country, error)

	// GetByContinent retrieves all countries in a continent.
	GetByContinent(ctx context.Context, continent string) ([]models.Country, error)

	// SearchByName retrieves countries whose name matches the keyword.
	SearchByName(ctx context.Context, keyword string) ([]models.Country, error)

	// TopByPopulation retrieves the limit most populous countries.
	TopByPopulation(ctx context.Context, limit int) ([]models.Country, error)

	// ContinentStats aggregates country count and population per continent.
	ContinentStats(ctx context.Context) ([]models.ContinentStat, error)

	// TotalPopulation returns the world population sum.
	TotalPopulation(ctx context.Context) (int64, error)

	// Insert creates a new country row.
	Insert(ctx context.Context, country *models.Country) error

	// Update updates an existing country row by code.
	Update(ctx context.Context, country *models.Country) error

	// Delete removes a country row by code. Returns the number of rows removed.
	Delete(ctx context.Context, code string) (int64, error)
}

// PopulationHistoryRepository handles yearly population history records.
type PopulationHistoryRepository interface {
	// GetByCountryCode retrieves the yearly history for a country, oldest first.
	GetByCountryCode(ctx context.Context, code string) ([]models.PopulationRecord, error)

	// Insert adds one yearly record for a country.
	Insert(ctx context.Context, code string, record models.PopulationRecord) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users     UserRepository
	Countries CountryRepository
	History   PopulationHistoryRepository
}
