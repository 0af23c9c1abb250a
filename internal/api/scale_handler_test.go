package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewScaleHandler(t *testing.T) {
	w := doRequest(t, newTestRouter(t, &mockReviewService{}), http.MethodGet, "/api/review-scale", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReviewScaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Qualities, 6)
	assert.Equal(t, 5, resp.Qualities[0].Quality)
	assert.Equal(t, 0, resp.Qualities[5].Quality)
	for _, g := range resp.Qualities {
		assert.Equal(t, domain.Quality(g.Quality).Description(), g.Description)
		assert.NotEqual(t, "unknown", g.Description)
		assert.Equal(t, g.Quality >= 3, g.Passing, "quality %d", g.Quality)
	}

	assert.Equal(t, []string{"quick", "deep", "test", "associative"}, resp.SessionTypes)
	for _, st := range resp.SessionTypes {
		assert.True(t, domain.SessionType(st).Valid())
	}
}
