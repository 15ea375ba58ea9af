package handlers

import (
	"net/http"

	"cfb-pickem/models"
	"cfb-pickem/services"

	"github.com/gorilla/mux"
)

// LeaderboardHandler serves standings, profiles and explicit badge awards
type LeaderboardHandler struct {
	board *services.LeaderboardService
	clock services.Clock
}

func NewLeaderboardHandler(board *services.LeaderboardService, clock services.Clock) *LeaderboardHandler {
	if clock == nil {
		clock = services.SystemClock
	}
	return &LeaderboardHandler{board: board, clock: clock}
}

// Leaderboard handles GET /api/leaderboard
func (h *LeaderboardHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Profile handles GET /api/users/{user}/profile
func (h *LeaderboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.board.Profile(r.Context(), mux.Vars(r)["user"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type awardResponse struct {
	User    string         `json:"user"`
	Awarded []models.Badge `json:"awarded"`
}

// Award handles POST /api/users/{user}/achievements
func (h *LeaderboardHandler) Award(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	awarded, err := h.board.AwardForUser(r.Context(), user, h.clock())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if awarded == nil {
		awarded = []models.Badge{}
	}
	writeJSON(w, http.StatusOK, awardResponse{User: user, Awarded: awarded})
}
