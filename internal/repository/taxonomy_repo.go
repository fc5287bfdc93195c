package repository

import (
	"fmt"

	"gamepal/internal/database"
	"gamepal/internal/models"
)

// TaxonomyRepository reads the fixed attribute taxonomy. The taxonomy is
// seeded by migration and never written at runtime.
type TaxonomyRepository struct {
	db *database.DB
}

// NewTaxonomyRepository creates a new taxonomy repository
func NewTaxonomyRepository(db *database.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

// GetTaxonomy loads every taxonomy value, grouped by category
func (r *TaxonomyRepository) GetTaxonomy() (models.Taxonomy, error) {
	query := "SELECT id, category, label FROM taxonomy_values ORDER BY category, id"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxonomy: %w", err)
	}
	defer rows.Close()

	taxonomy := make(models.Taxonomy)
	for rows.Next() {
		var v models.TaxonomyValue
		if err := rows.Scan(&v.ID, &v.Category, &v.Label); err != nil {
			return nil, fmt.Errorf("failed to scan taxonomy value: %w", err)
		}
		taxonomy[v.Category] = append(taxonomy[v.Category], v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy rows: %w", err)
	}

	return taxonomy, nil
}

// GetCategoryValues loads the values of a single category
func (r *TaxonomyRepository) GetCategoryValues(category models.Category) ([]models.TaxonomyValue, error) {
	query := "SELECT id, category, label FROM taxonomy_values WHERE category = ? ORDER BY id"
	rows, err := r.db.Query(query, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query category %s: %w", category, err)
	}
	defer rows.Close()

	var values []models.TaxonomyValue
	for rows.Next() {
		var v models.TaxonomyValue
		if err := rows.Scan(&v.ID, &v.Category, &v.Label); err != nil {
			return nil, fmt.Errorf("failed to scan taxonomy value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category rows: %w", err)
	}

	return values, nil
}
