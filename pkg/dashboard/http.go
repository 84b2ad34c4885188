package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"github.com/synaptica-ai/trialops/pkg/common/models"
	"github.com/synaptica-ai/trialops/pkg/dataset"
	"github.com/synaptica-ai/trialops/pkg/milestone"
)

type Handler struct {
	service *Service
	clock   func() time.Time
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, clock: time.Now}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/datasets", h.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/datasets/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/datasets/{id}/report", h.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/datasets/{id}/hgrac", h.handleHGRAC).Methods(http.MethodGet)
	r.HandleFunc("/milestones", h.handleMilestones).Methods(http.MethodGet)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Upload(r.Context(), r.Body)
	if err != nil {
		var schemaErr dataset.SchemaError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &schemaErr):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: schemaErr.Error(), Missing: schemaErr.Missing})
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "dataset too large"})
		default:
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	filter, now, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	report, err := h.service.Evaluate(r.Context(), mux.Vars(r)["id"], filter, now)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleHGRAC(w http.ResponseWriter, r *http.Request) {
	filter, now, ok := h.parseQuery(w, r)
	if !ok {
		return
	}
	rows, err := h.service.HGRAC(r.Context(), mux.Vars(r)["id"], filter, now)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}

func (h *Handler) handleMilestones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Catalog())
}

func (h *Handler) parseQuery(w http.ResponseWriter, r *http.Request) (milestone.Filter, time.Time, bool) {
	q := r.URL.Query()
	now := h.clock().UTC()
	if raw := q.Get("now"); raw != "" {
		t, err := ParseNow(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid now, expected YYYY-MM-DD or RFC3339"})
			return milestone.Filter{}, time.Time{}, false
		}
		now = t
	}

	filter := milestone.Filter{
		Studies:   listParam(q["study"]),
		TAs:       listParam(q["ta"]),
		Sourcings: listParam(q["sourcing"]),
	}
	for _, raw := range listParam(q["ctn_group"]) {
		g, ok := milestone.ParseCTNGroup(raw)
		if !ok {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "unknown ctn_group " + strconv.Quote(raw)})
			return milestone.Filter{}, time.Time{}, false
		}
		filter.CTNGroups = append(filter.CTNGroups, g)
	}
	if raw := q.Get("due_next_5w"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid due_next_5w"})
			return milestone.Filter{}, time.Time{}, false
		}
		filter.DueNextFiveWeeks = v
	}
	return filter, now, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrDatasetNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	}
	logger.Log.WithError(err).Error("request failed")
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "internal error"})
}

// ParseNow accepts a calendar date or an RFC3339 timestamp.
func ParseNow(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// listParam flattens repeated and comma separated values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
