package handlers

import (
	"net/http"

	"cfb-pickem/logging"
	"cfb-pickem/models"
	"cfb-pickem/services"

	"github.com/gorilla/mux"
)

// GameHandler handles game-related HTTP requests
type GameHandler struct {
	catalog *services.GameCatalog
	loader  *services.DataLoader
	clock   services.Clock
	logger  *logging.Logger
}

// NewGameHandler creates a new game handler. A nil loader disables refresh-on-list.
func NewGameHandler(catalog *services.GameCatalog, loader *services.DataLoader, clock services.Clock) *GameHandler {
	if clock == nil {
		clock = services.SystemClock
	}
	return &GameHandler{
		catalog: catalog,
		loader:  loader,
		clock:   clock,
		logger:  logging.WithPrefix("GameHandler"),
	}
}

type gamesResponse struct {
	Games        []models.GameView `json:"games"`
	RefreshError string            `json:"refreshError,omitempty"`
}

// ListGames handles GET /api/games. It refreshes the week from the feed first
// unless refresh=false; a failed refresh still lists what is stored.
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	resp := gamesResponse{}

	if h.loader != nil && r.URL.Query().Get("refresh") != "false" {
		if _, err := h.loader.RefreshWeek(r.Context()); err != nil {
			h.logger.Warnf("Refresh before listing failed: %v", err)
			resp.RefreshError = "feed unavailable"
		}
	}

	views, err := h.catalog.ListViews(r.Context(), h.clock())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp.Games = views
	writeJSON(w, http.StatusOK, resp)
}

// GetGame handles GET /api/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.GameView{Game: game, Locked: services.IsLocked(game, h.clock())})
}
