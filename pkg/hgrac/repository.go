package hgrac

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrUnavailable = errors.New("hgrac source unavailable")

// Source returns HGRAC records for a set of studies.
type Source interface {
	Fetch(ctx context.Context, studyNumbers []string) ([]Record, error)
}

type Repository struct {
	db    *gorm.DB
	table string
}

func NewRepository(db *gorm.DB, table string) *Repository {
	if table == "" {
		table = "hgrac_applications"
	}
	return &Repository{db: db, table: table}
}

func (r *Repository) Fetch(ctx context.Context, studyNumbers []string) ([]Record, error) {
	if len(studyNumbers) == 0 {
		return nil, nil
	}
	if r.db == nil {
		return nil, ErrUnavailable
	}
	var records []Record
	result := r.query(r.db.WithContext(ctx), studyNumbers).Find(&records)
	return records, result.Error
}

func (r *Repository) query(tx *gorm.DB, studyNumbers []string) *gorm.DB {
	return tx.Table(r.table).
		Where("study_number IN ?", studyNumbers).
		Order("study_number")
}
