package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cadenr/youface-be/internal/models"
	"github.com/cadenr/youface-be/internal/services"
)

// LeaderboardHandler handles HTTP requests for the clout ranking.
type LeaderboardHandler struct {
	scores services.ScoreServiceProvider
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(scores services.ScoreServiceProvider) *LeaderboardHandler {
	return &LeaderboardHandler{scores: scores}
}

// Get computes the full ranking and carves out the podium (top 3) and the
// list (ranks 4-20) windows the UI renders.
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	ranking, err := h.scores.Leaderboard()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute leaderboard")
		http.Error(w, "Failed to compute leaderboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"podium": window(ranking, 0, 3),
		"list":   window(ranking, 3, 20),
		"all":    ranking,
	})
}

func window(entries []models.LeaderboardEntry, from, to int) []models.LeaderboardEntry {
	if from > len(entries) {
		from = len(entries)
	}
	if to > len(entries) {
		to = len(entries)
	}
	return entries[from:to]
}
