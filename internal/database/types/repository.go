// Package types provides database operations for the publication type table.
package types

import (
	"gorm.io/gorm"

	"github.com/bruecksen/publications/internal/entities"
)

// Repository handles type table lookups.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new types repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll retrieves every type, in table order.
func (r *Repository) GetAll() ([]entities.Type, error) {
	var types []entities.Type
	err := r.db.Order(`"order" ASC, id ASC`).Find(&types).Error
	return types, err
}

// GetByID retrieves a type by ID.
func (r *Repository) GetByID(id uint) (*entities.Type, error) {
	var t entities.Type
	if err := r.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ResolveAlias finds the first type, in table order, whose BibTeX alias list
// contains the given tag. The match is case-insensitive. A tag no type claims
// reports gorm.ErrRecordNotFound.
func (r *Repository) ResolveAlias(tag string) (*entities.Type, error) {
	types, err := r.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range types {
		if types[i].Matches(tag) {
			return &types[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
