package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ArtDaSak/ParqueaderosMultisede/internal/app"
	"github.com/ArtDaSak/ParqueaderosMultisede/internal/domain"
)

// Provisioner is the minimal interface needed by the admin endpoints.
type Provisioner interface {
	CreateSite(ctx context.Context, in app.CreateSiteInput) (domain.Site, error)
	ListSites(ctx context.Context) ([]domain.Site, error)
	CreateZone(ctx context.Context, in app.CreateZoneInput) (domain.Zone, error)
	ListZones(ctx context.Context, siteID string) ([]domain.Zone, error)
	GetZone(ctx context.Context, zoneID string) (domain.Zone, error)
}

func HandleCreateSite(svc Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSiteRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		site, err := svc.CreateSite(r.Context(), app.CreateSiteInput{
			Name:    req.Name,
			City:    req.City,
			Address: req.Address,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toSiteResponse(site))
	}
}

func HandleListSites(svc Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sites, err := svc.ListSites(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]siteResponse, 0, len(sites))
		for _, site := range sites {
			resp = append(resp, toSiteResponse(site))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func HandleCreateZone(svc Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteID := chi.URLParam(r, "siteID")

		var req createZoneRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		tariff := decimal.Zero
		if req.HourlyTariff != "" {
			parsed, err := decimal.NewFromString(req.HourlyTariff)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidTariff, "invalid hourly_tariff")
				return
			}
			tariff = parsed
		}

		categories := make([]domain.VehicleCategory, 0, len(req.PermittedCategories))
		for _, c := range req.PermittedCategories {
			categories = append(categories, domain.VehicleCategory(c))
		}

		zone, err := svc.CreateZone(r.Context(), app.CreateZoneInput{
			SiteID:              siteID,
			Name:                req.Name,
			Capacity:            req.Capacity,
			HourlyTariff:        tariff,
			PermittedCategories: categories,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(toZoneResponse(zone))
	}
}

func HandleListZones(svc Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zones, err := svc.ListZones(r.Context(), chi.URLParam(r, "siteID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]zoneResponse, 0, len(zones))
		for _, zone := range zones {
			resp = append(resp, toZoneResponse(zone))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleZoneAvailability reports a zone's live slot count.
func HandleZoneAvailability(svc Provisioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone, err := svc.GetZone(r.Context(), chi.URLParam(r, "zoneID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := availabilityResponse{
			ZoneID:    zone.ID,
			Capacity:  zone.Capacity,
			Available: zone.Available,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type createSiteRequest struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type siteResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

func toSiteResponse(site domain.Site) siteResponse {
	return siteResponse{
		ID:      site.ID,
		Name:    site.Name,
		City:    site.City,
		Address: site.Address,
	}
}

type createZoneRequest struct {
	Name                string   `json:"name"`
	Capacity            int      `json:"capacity"`
	HourlyTariff        string   `json:"hourly_tariff"`
	PermittedCategories []string `json:"permitted_categories"`
}

type zoneResponse struct {
	ID                  string   `json:"id"`
	SiteID              string   `json:"site_id"`
	Name                string   `json:"name"`
	Capacity            int      `json:"capacity"`
	Available           int      `json:"available"`
	HourlyTariff        string   `json:"hourly_tariff"`
	PermittedCategories []string `json:"permitted_categories"`
}

func toZoneResponse(zone domain.Zone) zoneResponse {
	categories := make([]string, 0, len(zone.PermittedCategories))
	for _, c := range zone.PermittedCategories {
		categories = append(categories, string(c))
	}
	return zoneResponse{
		ID:                  zone.ID,
		SiteID:              zone.SiteID,
		Name:                zone.Name,
		Capacity:            zone.Capacity,
		Available:           zone.Available,
		HourlyTariff:        zone.HourlyTariff.StringFixed(2),
		PermittedCategories: categories,
	}
}

type availabilityResponse struct {
	ZoneID    string `json:"zone_id"`
	Capacity  int    `json:"capacity"`
	Available int    `json:"available"`
}
