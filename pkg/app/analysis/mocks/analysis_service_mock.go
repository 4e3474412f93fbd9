package mocks

import (
	"context"

	"github.com/NeuralTrust/SportLens/pkg/app/analysis"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) Analyze(ctx context.Context, req *analysis.Request) (*analysis.Result, error) {
	args := m.Called(ctx, req)
	var res *analysis.Result
	if v := args.Get(0); v != nil {
		res = v.(*analysis.Result)
	}
	return res, args.Error(1)
}
