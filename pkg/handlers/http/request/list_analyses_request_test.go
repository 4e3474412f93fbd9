package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListAnalysesRequest_Validate(t *testing.T) {
	req := &ListAnalysesRequest{}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 20, req.Limit)

	req = &ListAnalysesRequest{Limit: 500, Offset: 10}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 100, req.Limit)

	req = &ListAnalysesRequest{Limit: 5, Offset: -1}
	assert.Error(t, req.Validate())
}
