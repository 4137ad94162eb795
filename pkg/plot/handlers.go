package plot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/raykavin/signalscope/pkg/analysis"
	"github.com/raykavin/signalscope/pkg/annotate"
	"github.com/raykavin/signalscope/pkg/binning"
	"github.com/raykavin/signalscope/pkg/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

// BinsResponse is the histogram of one target's return distribution
type BinsResponse struct {
	Target  string           `json:"target"`
	Method  binning.Method   `json:"method"`
	Bins    []core.Bin       `json:"bins"`
	Summary analysis.Summary `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.log.WithError(err).Error("writing response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotLoaded), errors.Is(err, core.ErrNotReady), errors.Is(err, core.ErrDisposed):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUnknownSignal), errors.Is(err, core.ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, core.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnknownMethod):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidSample):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleHealth is unhealthy until data has been loaded once
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	lastUpdate := s.lastUpdate
	s.Unlock()

	if lastUpdate.IsZero() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(lastUpdate.UTC().Format("2006-01-02T15:04:05Z"))); err != nil {
		s.log.WithError(err).Error("writing health status")
	}
}

func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.View())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	query := r.URL.Query()
	selection := annotate.Selection{
		SignalDate: query.Get("signal"),
		TargetID:   query.Get("target"),
	}
	if err := s.Select(r.Context(), selection); err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.View())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var forward bool
	switch r.URL.Query().Get("direction") {
	case "next", "":
		forward = true
	case "prev":
	default:
		s.writeError(w, http.StatusBadRequest, errors.New("direction must be next or prev"))
		return
	}

	if err := s.Navigate(r.Context(), forward); err != nil {
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.View())
}

func (s *Server) handleBins(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	name := query.Get("method")
	if name == "" {
		name = string(binning.MethodSturges)
	}
	method, err := binning.ParseMethod(name)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	var params binning.Params
	if raw := query.Get("width"); raw != "" {
		if params.Width, err = strconv.ParseFloat(raw, 64); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.New("width must be a number"))
			return
		}
	}
	if raw := query.Get("count"); raw != "" {
		if params.Count, err = strconv.Atoi(raw); err != nil {
			s.writeError(w, http.StatusBadRequest, errors.New("count must be an integer"))
			return
		}
	}

	s.Lock()
	result := s.result
	s.Unlock()
	if result == nil {
		s.writeError(w, http.StatusServiceUnavailable, ErrNotLoaded)
		return
	}

	targetID := query.Get("target")
	target, ok := result.Target(targetID)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.New("unknown target "+strconv.Quote(targetID)))
		return
	}

	response := BinsResponse{Target: target.TargetID, Method: method, Bins: []core.Bin{}}
	bins, err := s.calculator.Bins(target.Distribution, method, params)
	if err != nil {
		response.Error = err.Error()
		s.writeJSON(w, statusOf(err), response)
		return
	}

	response.Bins = bins
	response.Summary = analysis.Summarize(target.Distribution)
	s.writeJSON(w, http.StatusOK, response)
}
