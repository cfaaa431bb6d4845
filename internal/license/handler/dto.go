package handler

import (
	"context"
	"time"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/requestcontext"
)

// CheckRequest is the JSON body for validate, activate and verify.
type CheckRequest struct {
	LicenseKey   string            `json:"license_key"`
	Domain       string            `json:"domain"`
	ProductID    string            `json:"product_id,omitempty"`
	SiteMetadata map[string]string `json:"site_metadata,omitempty"`
}

func (r *CheckRequest) toModel(ctx context.Context) *models.CheckRequest {
	return &models.CheckRequest{
		LicenseKey:   r.LicenseKey,
		Domain:       r.Domain,
		ProductID:    r.ProductID,
		SiteMetadata: r.SiteMetadata,
		Client: models.ClientMeta{
			IPAddress: requestcontext.ClientIP(ctx),
			UserAgent: requestcontext.UserAgent(ctx),
		},
	}
}

type DeactivateRequest struct {
	LicenseKey string `json:"license_key"`
	Domain     string `json:"domain"`
}

type DeactivateResponse struct {
	Result  models.DeactivationResult `json:"result"`
	Removed bool                      `json:"removed"`
}

// LicenseInfoResponse is the public view of a license. Bound fingerprint
// hashes stay server-side.
type LicenseInfoResponse struct {
	License     LicenseView               `json:"license"`
	Policy      *models.LicenseTypePolicy `json:"policy"`
	Restriction *models.RestrictionState  `json:"restriction,omitempty"`
}

type LicenseView struct {
	Key                  string        `json:"key"`
	Status               models.Status `json:"status"`
	ProductID            string        `json:"product_id"`
	ExpiryDate           *time.Time    `json:"expiry_date,omitempty"`
	ActivationLimit      int           `json:"activation_limit"`
	ActivatedDomains     []string      `json:"activated_domains"`
	RemainingActivations int           `json:"remaining_activations"`
	LicenseTypeID        *int64        `json:"license_type_id,omitempty"`
}

func newLicenseInfoResponse(info *models.LicenseInfo) LicenseInfoResponse {
	l := info.License
	domains := l.ActivatedDomains
	if domains == nil {
		domains = []string{}
	}
	return LicenseInfoResponse{
		License: LicenseView{
			Key:                  l.Key,
			Status:               l.Status,
			ProductID:            l.ProductID,
			ExpiryDate:           l.ExpiryDate,
			ActivationLimit:      l.ActivationLimit,
			ActivatedDomains:     domains,
			RemainingActivations: l.RemainingActivations(),
			LicenseTypeID:        l.LicenseTypeID,
		},
		Policy:      info.Policy,
		Restriction: info.Restriction,
	}
}

type LiftRequest struct {
	Reason string `json:"reason"`
}

type IncidentsResponse struct {
	Incidents []*models.Incident `json:"incidents"`
}
