package repository

import (
	"context"
	"errors"

	"github.com/NeuralTrust/SportLens/pkg/domain"
	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) analysis.Repository {
	return &analysisRepository{
		db: db,
	}
}

func (r *analysisRepository) Save(ctx context.Context, a *analysis.Analysis) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*analysis.Analysis, error) {
	var a analysis.Analysis
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("analysis", id)
		}
		return nil, err
	}
	return &a, nil
}

// List returns analyses newest first.
func (r *analysisRepository) List(ctx context.Context, limit, offset int) ([]*analysis.Analysis, error) {
	var list []*analysis.Analysis
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
