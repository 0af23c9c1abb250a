package api

import (
	"net/http"

	"github.com/phrazzld/scry-review/internal/api/shared"
)

// ReviewScaleHandler handles GET /api/review-scale. It publishes what each
// quality grade means and which session types StartSession accepts.
func ReviewScaleHandler(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, reviewScale())
}
