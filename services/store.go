package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a query: filters, ordering, preloads.
type Scope = func(*gorm.DB) *gorm.DB

// Store is the generic CRUD collaborator for one table. It exposes only
// select, insert, update and delete; multi-table effects are composed by the
// services that own them.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore creates a Store over db
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// WithTx returns a Store bound to tx
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	return &Store[T]{db: tx}
}

// Select returns every row matching the scopes
func (s *Store[T]) Select(ctx context.Context, scopes ...Scope) ([]T, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Scopes(scopes...).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads a single row by primary key
func (s *Store[T]) Get(ctx context.Context, id uint, scopes ...Scope) (*T, error) {
	var row T
	err := s.db.WithContext(ctx).Scopes(scopes...).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates row and fills in its generated id and timestamps
func (s *Store[T]) Insert(ctx context.Context, row *T) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error
}

// Update writes the given columns of one row
func (s *Store[T]) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		_, err := s.Get(ctx, id)
		return err
	}

	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one row (soft delete for models with DeletedAt)
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports how many of ids are present in the table
func (s *Store[T]) Count(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	if len(ids) == 0 {
		return 0, nil
	}
	err := s.db.WithContext(ctx).Model(new(T)).Where("id IN ?", ids).Count(&n).Error
	return n, err
}

// notFoundAs swaps the generic ErrNotFound for a typed one
func notFoundAs(err, typed error) error {
	if errors.Is(err, ErrNotFound) {
		return typed
	}
	return err
}
