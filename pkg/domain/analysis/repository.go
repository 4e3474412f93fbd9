package analysis

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=analysis_repository_mock.go --case=underscore --with-expecter
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*Analysis, error)
}
