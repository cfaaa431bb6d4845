// Package signing issues HS256 tokens over successful validation payloads so
// clients can cache and re-verify a validation offline until the next check.
package signing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"licenseguard/internal/license/models"
	dErrors "licenseguard/pkg/domain-errors"
)

// Claims is the signed view of a validation payload.
type Claims struct {
	LicenseKey           string   `json:"license_key"`
	ProductID            string   `json:"product_id,omitempty"`
	Domain               string   `json:"domain"`
	RemainingActivations int      `json:"remaining_activations"`
	Features             []string `json:"features,omitempty"`
	jwt.RegisteredClaims
}

// Signer signs and verifies payload tokens.
type Signer struct {
	signingKey []byte
	issuer     string
}

func New(signingKey []byte, issuer string) (*Signer, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("signing key is required")
	}
	return &Signer{signingKey: signingKey, issuer: issuer}, nil
}

// Sign returns a token valid until the payload's next check time.
func (s *Signer) Sign(domain string, p *models.Payload) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		LicenseKey:           p.LicenseKey,
		ProductID:            p.ProductID,
		Domain:               domain,
		RemainingActivations: p.RemainingActivations,
		Features:             p.Features,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.LicenseKey,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(p.ServerTime),
			ExpiresAt: jwt.NewNumericDate(p.NextCheckTime),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign payload")
	}
	return signed, nil
}

// Verify parses a token and checks its signature and expiry as of now.
func (s *Signer) Verify(tokenString string, now time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid token")
	}
	return claims, nil
}
