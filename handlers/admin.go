package handlers

import (
	"fmt"
	"net/http"
	"time"

	"cfb-pickem/logging"
	"cfb-pickem/services"

	"github.com/gorilla/mux"
)

// AdminHandler exposes operator actions behind the admin token
type AdminHandler struct {
	loader *services.DataLoader
	logger *logging.Logger
}

func NewAdminHandler(loader *services.DataLoader) *AdminHandler {
	return &AdminHandler{loader: loader, logger: logging.WithPrefix("AdminHandler")}
}

// Refresh handles POST /api/admin/refresh. Optional start and end query
// parameters (YYYYMMDD) select a range other than the coming weekend.
func (h *AdminHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var (
		report *services.RefreshReport
		err    error
	)

	q := r.URL.Query()
	if q.Get("start") != "" || q.Get("end") != "" {
		rng, perr := parseRange(q.Get("start"), q.Get("end"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		report, err = h.loader.Refresh(r.Context(), rng)
	} else {
		report, err = h.loader.RefreshWeek(r.Context())
	}
	if err != nil {
		h.logger.Errorf("Admin refresh failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type resultRequest struct {
	HomeScore *int  `json:"homeScore"`
	AwayScore *int  `json:"awayScore"`
	Finalized *bool `json:"finalized"`
}

// ApplyResult handles POST /api/admin/games/{id}/result. Finalized defaults to true.
func (h *AdminHandler) ApplyResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HomeScore == nil || req.AwayScore == nil {
		writeError(w, http.StatusBadRequest, "homeScore and awayScore are required")
		return
	}
	finalized := true
	if req.Finalized != nil {
		finalized = *req.Finalized
	}

	gameID := mux.Vars(r)["id"]
	report, err := h.loader.ApplyResult(r.Context(), gameID, *req.HomeScore, *req.AwayScore, finalized)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.logger.Infof("Result for game %s applied by admin (final=%t)", gameID, finalized)
	writeJSON(w, http.StatusOK, report)
}

func parseRange(start, end string) (services.DateRange, error) {
	s, err := time.Parse("20060102", start)
	if err != nil {
		return services.DateRange{}, fmt.Errorf("invalid start %q", start)
	}
	e := s
	if end != "" {
		if e, err = time.Parse("20060102", end); err != nil {
			return services.DateRange{}, fmt.Errorf("invalid end %q", end)
		}
	}
	if e.Before(s) {
		return services.DateRange{}, fmt.Errorf("end before start")
	}
	return services.DateRange{Start: s, End: e}, nil
}
