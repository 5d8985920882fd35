package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeInvalidID          = "invalid_id"
	codeSiteNameRequired   = "site_name_required"
	codeZoneNameRequired   = "zone_name_required"
	codeInvalidCapacity    = "invalid_capacity"
	codeInvalidTariff      = "invalid_tariff"
	codeSiteNotFound       = "site_not_found"
	codeZoneNotFound       = "zone_not_found"
	codeVehicleNotFound    = "vehicle_not_found"
	codeCapacityExceeded   = "capacity_exceeded"
	codeAlreadyParked      = "already_parked"
	codeNoActiveSession    = "no_active_session"
	codeCategoryNotAllowed = "category_not_allowed"
	codeConflict           = "conflict"
	codeClockFault         = "clock_fault"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps the coordinator's typed failures onto HTTP statuses.
// Anything untyped (including clock faults) stays a 500 so no raw storage
// error reaches a caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, domain.ErrSiteNotFound):
		writeError(w, http.StatusNotFound, codeSiteNotFound, err.Error())
	case errors.Is(err, domain.ErrZoneNotFound):
		writeError(w, http.StatusNotFound, codeZoneNotFound, err.Error())
	case errors.Is(err, domain.ErrVehicleNotFound):
		writeError(w, http.StatusNotFound, codeVehicleNotFound, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, codeCapacityExceeded, err.Error())
	case errors.Is(err, domain.ErrAlreadyParked):
		writeError(w, http.StatusConflict, codeAlreadyParked, err.Error())
	case errors.Is(err, domain.ErrNoActiveSession):
		writeError(w, http.StatusUnprocessableEntity, codeNoActiveSession, err.Error())
	case errors.Is(err, domain.ErrCategoryNotAllowed):
		writeError(w, http.StatusConflict, codeCategoryNotAllowed, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInterval):
		writeError(w, http.StatusInternalServerError, codeClockFault, err.Error())
	case errors.Is(err, domain.ErrSiteNameRequired):
		writeError(w, http.StatusBadRequest, codeSiteNameRequired, err.Error())
	case errors.Is(err, domain.ErrZoneNameRequired):
		writeError(w, http.StatusBadRequest, codeZoneNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, codeInvalidCapacity, err.Error())
	case errors.Is(err, domain.ErrInvalidTariff):
		writeError(w, http.StatusBadRequest, codeInvalidTariff, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
