package request

import (
	"fmt"

	appAnalysis "github.com/NeuralTrust/SportLens/pkg/app/analysis"
)

type ListAnalysesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (r *ListAnalysesRequest) Validate() error {
	if r.Offset < 0 {
		return fmt.Errorf("offset must be zero or greater")
	}
	r.Limit = appAnalysis.ClampLimit(r.Limit)
	return nil
}
