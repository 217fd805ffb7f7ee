package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/studyhub/study-badges-hub/internal/application/command"
	"github.com/studyhub/study-badges-hub/internal/application/query"
	"github.com/studyhub/study-badges-hub/internal/domain/shared"
	"github.com/studyhub/study-badges-hub/pkg/logger"
)

// defaultLeaderboardLimit applies when the limit query parameter is absent.
const defaultLeaderboardLimit = 10

// envelope is the uniform response shape for every outcome.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes an envelope with the given status.
func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// writeSuccess writes a successful envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

// writeError writes a failed envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeDomainError maps the engine's error taxonomy onto transport codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	switch {
	case shared.IsInvalidArgument(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case shared.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case shared.IsDataUnavailable(err):
		log.Error("dependent read failed", logger.Err(err))
		writeError(w, http.StatusServiceUnavailable, "data unavailable")
	case shared.IsPersistenceFailure(err):
		log.Error("award batch write failed", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "persistence failure")
	case shared.IsUnknownRequirement(err):
		// Catalog misconfiguration, not a caller error.
		log.Error("badge catalog misconfigured", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "badge catalog misconfigured")
	default:
		log.Error("unhandled error", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"}, "")
}

// handleGetUserBadges returns a user's full badge state.
func (s *Server) handleGetUserBadges(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	result, err := s.deps.UserBadges.Handle(r.Context(), query.GetUserBadgesQuery{
		UserID:      userID,
		RecentLimit: s.deps.RecentBadgesLimit,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, "")
}

// handleCheckAndAward runs an award pass for a user.
func (s *Server) handleCheckAndAward(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	result, err := s.deps.CheckAndAward.Handle(r.Context(), command.CheckAndAwardCommand{UserID: userID})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	message := "no new badges"
	if result.HasNewBadges() {
		message = "new badges awarded"
	}
	writeSuccess(w, http.StatusOK, result, message)
}

// handleGetLeaderboard returns the badge-count leaderboard.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	// Hot path: serve from cache when available.
	if s.deps.LeaderboardCache != nil {
		var cached query.GetLeaderboardResult
		hit, err := s.deps.LeaderboardCache.Get(r.Context(), limit, &cached)
		if err != nil {
			// Degrade to the aggregator on cache trouble.
			logger.FromContext(r.Context()).Warn("leaderboard cache read failed", logger.Err(err))
		}
		if hit {
			writeSuccess(w, http.StatusOK, &cached, "")
			return
		}
	}

	result, err := s.deps.Leaderboard.Handle(r.Context(), query.GetLeaderboardQuery{Limit: limit})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if s.deps.LeaderboardCache != nil {
		if err := s.deps.LeaderboardCache.Set(r.Context(), limit, result); err != nil {
			logger.FromContext(r.Context()).Warn("leaderboard cache write failed", logger.Err(err))
		}
	}

	writeSuccess(w, http.StatusOK, result, "")
}
