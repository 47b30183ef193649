package server

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/bobmcallan/argos/internal/common"
	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/services/networth"
)

// chartOptions reads range, width, max_points, events and threshold.
func chartOptions(w http.ResponseWriter, r *http.Request) (interfaces.ChartOptions, bool) {
	var opts interfaces.ChartOptions

	tr, ok := rangeParam(w, r)
	if !ok {
		return opts, false
	}
	opts.Range = tr

	if opts.ViewportWidth, ok = intParam(w, r, "width"); !ok {
		return opts, false
	}
	if opts.MaxPoints, ok = intParam(w, r, "max_points"); !ok {
		return opts, false
	}

	q := r.URL.Query()
	if raw := q.Get("events"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid events: must be true or false")
			return opts, false
		}
		opts.IncludeEvents = include
	}
	if raw := q.Get("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil || threshold <= 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
			WriteError(w, http.StatusBadRequest, "Invalid threshold: must be a positive percentage")
			return opts, false
		}
		opts.EventThreshold = threshold
	}
	return opts, true
}

// handleNetWorthHistory handles GET /api/networth/history?range=.
func (s *Server) handleNetWorthHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	tr, ok := rangeParam(w, r)
	if !ok {
		return
	}

	points, err := s.app.NetWorthService.History(r.Context(), common.ResolveUserID(r.Context()), tr)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"range":  tr,
		"points": points,
	})
}

// handleNetWorthChart handles GET /api/networth/chart.
func (s *Server) handleNetWorthChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts, ok := chartOptions(w, r)
	if !ok {
		return
	}

	series, err := s.app.NetWorthService.Chart(r.Context(), common.ResolveUserID(r.Context()), opts)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleNetWorthChartPNG handles GET /api/networth/chart.png.
func (s *Server) handleNetWorthChartPNG(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	opts, ok := chartOptions(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.app.NetWorthService.RenderChartPNG(r.Context(), common.ResolveUserID(r.Context()), opts, &buf); err != nil {
		if errors.Is(err, networth.ErrNoChartData) {
			WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "no_data")
			return
		}
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleNetWorthSummary handles GET /api/networth/summary?range=.
func (s *Server) handleNetWorthSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	tr, ok := rangeParam(w, r)
	if !ok {
		return
	}

	summary, err := s.app.NetWorthService.Summary(r.Context(), common.ResolveUserID(r.Context()), tr)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}
