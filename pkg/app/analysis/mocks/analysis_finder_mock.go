package mocks

import (
	"context"

	domain "github.com/NeuralTrust/SportLens/pkg/domain/analysis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type Finder struct {
	mock.Mock
}

func (m *Finder) Find(ctx context.Context, id uuid.UUID) (*domain.Analysis, error) {
	args := m.Called(ctx, id)
	var a *domain.Analysis
	if v := args.Get(0); v != nil {
		a = v.(*domain.Analysis)
	}
	return a, args.Error(1)
}

func (m *Finder) List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error) {
	args := m.Called(ctx, limit, offset)
	var list []*domain.Analysis
	if v := args.Get(0); v != nil {
		list = v.([]*domain.Analysis)
	}
	return list, args.Error(1)
}
