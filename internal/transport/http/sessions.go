package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/app"
)

// SessionCoordinator is the minimal interface needed by the entry/exit
// endpoints; both the plain and the instrumented coordinator satisfy it.
type SessionCoordinator interface {
	Enter(ctx context.Context, in app.EnterInput) (app.EnterResult, error)
	Exit(ctx context.Context, in app.ExitInput) (app.ExitResult, error)
}

// HandleEnter returns the handler for vehicle admissions.
func HandleEnter(svc SessionCoordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req enterRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.VehicleID == "" || req.SiteID == "" || req.ZoneID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "vehicle_id, site_id and zone_id are required")
			return
		}

		res, err := svc.Enter(r.Context(), app.EnterInput{
			VehicleID: req.VehicleID,
			SiteID:    req.SiteID,
			ZoneID:    req.ZoneID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := enterResponse{
			SessionID: res.SessionID,
			ZoneID:    res.ZoneID,
			Available: res.Available,
			EnteredAt: res.EnteredAt,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleExit returns the handler for vehicle departures.
func HandleExit(svc SessionCoordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exitRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.VehicleID == "" || req.ZoneID == "" {
			writeError(w, http.StatusBadRequest, codeInvalidID, "vehicle_id and zone_id are required")
			return
		}

		res, err := svc.Exit(r.Context(), app.ExitInput{
			VehicleID: req.VehicleID,
			ZoneID:    req.ZoneID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := exitResponse{
			SessionID:       res.SessionID,
			DurationMinutes: res.DurationMinutes,
			Fee:             res.Fee.StringFixed(2),
			ExitedAt:        res.ExitedAt,
			Available:       res.Available,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type enterRequest struct {
	VehicleID string `json:"vehicle_id"`
	SiteID    string `json:"site_id"`
	ZoneID    string `json:"zone_id"`
}

type enterResponse struct {
	SessionID string    `json:"session_id"`
	ZoneID    string    `json:"zone_id"`
	Available int       `json:"available"`
	EnteredAt time.Time `json:"entered_at"`
}

type exitRequest struct {
	VehicleID string `json:"vehicle_id"`
	ZoneID    string `json:"zone_id"`
}

type exitResponse struct {
	SessionID       string    `json:"session_id"`
	DurationMinutes int64     `json:"duration_minutes"`
	Fee             string    `json:"fee"`
	ExitedAt        time.Time `json:"exited_at"`
	Available       int       `json:"available"`
}
