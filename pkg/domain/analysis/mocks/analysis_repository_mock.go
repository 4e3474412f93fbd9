package mocks

import (
	"context"

	"github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, a *analysis.Analysis) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *Repository) GetByID(ctx context.Context, id uuid.UUID) (*analysis.Analysis, error) {
	args := m.Called(ctx, id)
	var a *analysis.Analysis
	if v := args.Get(0); v != nil {
		a = v.(*analysis.Analysis)
	}
	return a, args.Error(1)
}

func (m *Repository) List(ctx context.Context, limit, offset int) ([]*analysis.Analysis, error) {
	args := m.Called(ctx, limit, offset)
	var list []*analysis.Analysis
	if v := args.Get(0); v != nil {
		list = v.([]*analysis.Analysis)
	}
	return list, args.Error(1)
}
