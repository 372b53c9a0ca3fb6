package database

import (
	"lms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCategories are the catalog categories a fresh install starts with
var DefaultCategories = []string{
	"Computer Science",
	"Philosophy",
	"Mathematics",
	"Art",
	"History",
	"Photography",
	"Economics",
	"Biology",
}

// SeedCategories inserts the given categories, skipping names that already exist.
// It returns how many rows were added.
func SeedCategories(db *gorm.DB, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&categories)
	return result.RowsAffected, result.Error
}
