package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// providerStatus is the response body for GET /provider.
type providerStatus struct {
	State      string `json:"state"`
	FrameCount uint64 `json:"frame_count"`
	HasHandle  bool   `json:"has_handle"`
}

// handleProviderStatus returns the provider adapter's lifecycle state.
func (s *Server) handleProviderStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, providerStatus{
		State:      string(s.provider.State()),
		FrameCount: s.provider.FrameCount(),
		HasHandle:  s.provider.HasHandle(),
	})
}

// deviceStatus is one element of the GET /devices response.
type deviceStatus struct {
	Serial    string `json:"serial"`
	State     string `json:"state"`
	DeviceID  uint32 `json:"device_id"`
	HasHandle bool   `json:"has_handle"`
}

// handleListDevices returns the announced device adapters.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := []deviceStatus{}
	if s.devices != nil {
		for _, d := range s.devices.Adapters() {
			devices = append(devices, deviceStatus{
				Serial:    d.Serial(),
				State:     string(d.State()),
				DeviceID:  d.DeviceID(),
				HasHandle: d.HasHandle(),
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"count":   len(devices),
	})
}

// handleJournalRecent returns the most recent lifecycle transitions.
// Query parameters: limit (default 50, max 200).
func (s *Server) handleJournalRecent(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w, "journal not configured")
		return
	}

	entries, err := s.journal.Recent(r.Context(), parseLimit(r))
	if err != nil {
		s.logger.Error("journal query failed", "error", err)
		writeInternalError(w, "journal query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleJournalHistory returns the transition history for one entity.
func (s *Server) handleJournalHistory(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeNotFound(w, "journal not configured")
		return
	}

	entity := chi.URLParam(r, "entity")
	id := chi.URLParam(r, "id")
	if entity != "provider" && entity != "device" {
		writeBadRequest(w, "entity must be provider or device")
		return
	}

	entries, err := s.journal.History(r.Context(), entity, id, parseLimit(r))
	if err != nil {
		s.logger.Error("journal query failed", "entity", entity, "id", id, "error", err)
		writeInternalError(w, "journal query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entity":  entity,
		"id":      id,
		"entries": entries,
		"count":   len(entries),
	})
}

// parseLimit reads the limit query parameter, 0 when absent or malformed.
// The journal clamps the actual range.
func parseLimit(r *http.Request) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return 0
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return limit
}
