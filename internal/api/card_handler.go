package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// CardHandler handles card scheduling and review session requests.
type CardHandler struct {
	reviewService card_review.Service
	logger        *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(reviewService card_review.Service, logger *slog.Logger) *CardHandler {
	if reviewService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("reviewService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "card_handler")),
	}
}

// RegisterCard handles POST /api/cards.
func (h *CardHandler) RegisterCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterCardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	id := uuid.Nil
	if req.ID != "" {
		// validated as a UUID above
		id = uuid.MustParse(req.ID)
	}

	card, err := h.reviewService.RegisterCard(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register card")
		return
	}

	log.Debug("card registered", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /api/cards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.reviewService.GetCard(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteCard(r.Context(), cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}

	log.Debug("card deleted", slog.String("card_id", cardID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// GetDueCards handles GET /api/cards/due?limit=N.
func (h *CardHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	limit, err := parseLimit(r)
	if err != nil {
		log.Warn("invalid limit", slog.String("limit", r.URL.Query().Get("limit")))
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := h.reviewService.GetDueCards(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list due cards")
		return
	}

	log.Debug("listed due cards", slog.Int("count", len(due)), slog.Int("limit", limit))
	shared.RespondWithJSON(w, r, http.StatusOK, dueCardsToResponse(due))
}

// GetSessionHistory handles GET /api/cards/{id}/sessions.
func (h *CardHandler) GetSessionHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	sessions, err := h.reviewService.GetSessionHistory(r.Context(), cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session history")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionsToResponse(sessions))
}

// StartSession handles POST /api/cards/{id}/sessions.
func (h *CardHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	cardID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	session, err := h.reviewService.StartSession(r.Context(), cardID, domain.SessionType(req.SessionType))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start review session")
		return
	}

	log.Debug("review session started",
		slog.String("card_id", cardID.String()),
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// CompleteSession handles POST /api/sessions/{id}/complete.
func (h *CardHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := handlePathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CompleteSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.reviewService.CompleteSession(
		r.Context(),
		sessionID,
		domain.Quality(*req.Quality),
		req.Notes,
	)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete review session")
		return
	}

	log.Debug("review session completed",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("quality", *req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
