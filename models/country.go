package models

import "time"

// Country represents one row of the country population dataset.
type Country struct {
	ID                int64     `json:"id" db:"id"`
	CountryCode       string    `json:"countryCode" db:"country_code" validate:"required,len=3"`
	CountryName       string    `json:"countryName" db:"country_name" validate:"required"`
	Continent         string    `json:"continent" db:"continent" validate:"required"`
	Population        int64     `json:"population" db:"population" validate:"gte=0"`
	AreaSqKm          float64   `json:"areaSqKm" db:"area_sq_km"`
	PopulationDensity float64   `json:"populationDensity" db:"population_density"`
	GDPPerCapita      float64   `json:"gdpPerCapita" db:"gdp_per_capita"`
	LifeExpectancy    float64   `json:"lifeExpectancy" db:"life_expectancy"`
	Year              int       `json:"year" db:"year"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// ContinentStat is an aggregate over one continent.
type ContinentStat struct {
	Continent       string  `json:"continent"`
	CountryCount    int     `json:"countryCount"`
	TotalPopulation int64   `json:"totalPopulation"`
	AvgPopulation   float64 `json:"avgPopulation"`
}

// PopulationRecord is one year of a country's population history.
type PopulationRecord struct {
	Year       int     `json:"year"`
	Population int64   `json:"population"`
	GrowthRate float64 `json:"growthRate"`
}
