package analysis

import (
	"context"

	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

//go:generate mockery --name=Finder --dir=. --output=./mocks --filename=analysis_finder_mock.go --case=underscore --with-expecter
type Finder interface {
	Find(ctx context.Context, id uuid.UUID) (*analysis.Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*analysis.Analysis, error)
}

type finder struct {
	repo analysis.Repository
}

// NewFinder reads stored analyses. A nil repo means history is turned off.
func NewFinder(repo analysis.Repository) Finder {
	return &finder{repo: repo}
}

func (f *finder) Find(ctx context.Context, id uuid.UUID) (*analysis.Analysis, error) {
	if f.repo == nil {
		return nil, ErrHistoryDisabled
	}
	return f.repo.GetByID(ctx, id)
}

func (f *finder) List(ctx context.Context, limit, offset int) ([]*analysis.Analysis, error) {
	if f.repo == nil {
		return nil, ErrHistoryDisabled
	}
	if offset < 0 {
		offset = 0
	}
	list, err := f.repo.List(ctx, ClampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*analysis.Analysis{}
	}
	return list, nil
}

// ClampLimit keeps page sizes in 1..MaxListLimit; zero or less means the default.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
