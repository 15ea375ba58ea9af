package handlers

import (
	"mime"
	"net/http"
	"strings"
	"time"

	"cfb-pickem/middleware"
	"cfb-pickem/models"
	"cfb-pickem/services"
)

// PredictionHandler accepts and lists predictions
type PredictionHandler struct {
	predictions *services.PredictionService
	clock       services.Clock
}

func NewPredictionHandler(predictions *services.PredictionService, clock services.Clock) *PredictionHandler {
	if clock == nil {
		clock = services.SystemClock
	}
	return &PredictionHandler{predictions: predictions, clock: clock}
}

// submitRequest is either a single prediction or a batch under Predictions
type submitRequest struct {
	User        string                   `json:"user"`
	GameID      string                   `json:"gameId"`
	Winner      models.Side              `json:"winner"`
	Total       models.TotalDirection    `json:"total"`
	Predictions []models.PredictionInput `json:"predictions"`
}

type batchResponse struct {
	User        string                 `json:"user"`
	Accepted    int                    `json:"accepted"`
	Rejected    int                    `json:"rejected"`
	Outcomes    []models.SubmitOutcome `json:"outcomes"`
	ParseErrors []string               `json:"parseErrors,omitempty"`
}

// Submit handles POST /api/predictions. JSON bodies carry one prediction or a
// "predictions" batch; form bodies carry "user" and the pipe "payload".
// An authenticated user always overrides any user named in the body.
func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	now := h.clock()

	if form, multipart := formKind(r); form {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var err error
		if multipart {
			err = r.ParseMultipartForm(maxBodyBytes)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid form")
			return
		}
		user := resolveUser(r, r.PostFormValue("user"))
		inputs, parseErrs := services.ParsePredictionPayload(r.PostFormValue("payload"))
		resp := h.batch(r, user, inputs, now)
		for _, err := range parseErrs {
			resp.ParseErrors = append(resp.ParseErrors, err.Error())
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	var req submitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user := resolveUser(r, req.User)

	if len(req.Predictions) > 0 {
		writeJSON(w, http.StatusOK, h.batch(r, user, req.Predictions, now))
		return
	}

	prediction, err := h.predictions.Submit(r.Context(), user, req.GameID, req.Winner, req.Total, now)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (h *PredictionHandler) batch(r *http.Request, user string, inputs []models.PredictionInput, now time.Time) batchResponse {
	outcomes := h.predictions.SubmitBatch(r.Context(), user, inputs, now)
	resp := batchResponse{User: user, Outcomes: outcomes}
	for i := range outcomes {
		if outcomes[i].Accepted() {
			resp.Accepted++
		} else {
			resp.Rejected++
		}
	}
	return resp
}

// List handles GET /api/predictions?user=
func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := resolveUser(r, r.URL.Query().Get("user"))
	if user == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}
	predictions, err := h.predictions.ListByUser(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

func resolveUser(r *http.Request, fallback string) string {
	if user := middleware.GetUserFromContext(r); user != "" {
		return user
	}
	return strings.TrimSpace(fallback)
}

// formKind reports whether the body is a form, and whether it is multipart
func formKind(r *http.Request) (form bool, multipart bool) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false, false
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		return true, false
	case "multipart/form-data":
		return true, true
	}
	return false, false
}
