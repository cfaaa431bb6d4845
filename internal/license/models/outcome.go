package models

import "time"

// Code is the closed outcome taxonomy returned by the validation engine.
type Code string

const (
	CodeValid                   Code = "VALID"
	CodeInvalidLicense          Code = "INVALID_LICENSE"
	CodeLicenseInactive         Code = "LICENSE_INACTIVE"
	CodeLicenseExpired          Code = "LICENSE_EXPIRED"
	CodeProductMismatch         Code = "PRODUCT_MISMATCH"
	CodeDomainNotActivated      Code = "DOMAIN_NOT_ACTIVATED"
	CodeActivationLimitExceeded Code = "ACTIVATION_LIMIT_EXCEEDED"
	CodeSubdomainLimitExceeded  Code = "SUBDOMAIN_LIMIT_EXCEEDED"
	CodeLocalhostNotAllowed     Code = "LOCALHOST_NOT_ALLOWED"
	CodeFingerprintMismatch     Code = "FINGERPRINT_MISMATCH"
	CodeRateLimitExceeded       Code = "RATE_LIMIT_EXCEEDED"
	CodeLicenseRestricted       Code = "LICENSE_RESTRICTED"
	CodeSystemError             Code = "SYSTEM_ERROR"
)

var codeMessages = map[Code]string{
	CodeValid:                   "License is valid",
	CodeInvalidLicense:          "License not found",
	CodeLicenseInactive:         "License is not active",
	CodeLicenseExpired:          "License has expired",
	CodeProductMismatch:         "License not valid for this product",
	CodeDomainNotActivated:      "License is not activated on this domain",
	CodeActivationLimitExceeded: "Activation limit exceeded",
	CodeSubdomainLimitExceeded:  "Subdomain limit exceeded",
	CodeLocalhostNotAllowed:     "Localhost not allowed for this license",
	CodeFingerprintMismatch:     "Site fingerprint mismatch",
	CodeRateLimitExceeded:       "Too many requests",
	CodeLicenseRestricted:       "License is temporarily restricted",
	CodeSystemError:             "License service unavailable",
}

// Message returns the caller-facing message for the code.
func (c Code) Message() string {
	if m, ok := codeMessages[c]; ok {
		return m
	}
	return string(c)
}

// Payload is returned on successful validation.
type Payload struct {
	LicenseKey           string     `json:"license_key"`
	ProductID            string     `json:"product_id"`
	RemainingActivations int        `json:"remaining_activations"`
	Unlimited            bool       `json:"unlimited"`
	ExpiryDate           *time.Time `json:"expiry_date,omitempty"`
	Features             []string   `json:"features"`
	ServerTime           time.Time  `json:"server_time"`
	NextCheckTime        time.Time  `json:"next_check_time"`
	Signature            string     `json:"signature,omitempty"`
}

// Result is the engine's answer to a check-in. It is data, never an error.
type Result struct {
	Valid       bool            `json:"valid"`
	Code        Code            `json:"code"`
	Message     string          `json:"message"`
	Restriction RestrictionKind `json:"restriction,omitempty"`
	RetryAt     *time.Time      `json:"retry_at,omitempty"`
	Payload     *Payload        `json:"payload,omitempty"`
}

// Reject builds a failed result.
func Reject(code Code) *Result {
	return &Result{Code: code, Message: code.Message()}
}

// Restricted builds a LICENSE_RESTRICTED result carrying the restriction kind.
func Restricted(kind RestrictionKind, until *time.Time) *Result {
	return &Result{
		Code:        CodeLicenseRestricted,
		Message:     CodeLicenseRestricted.Message(),
		Restriction: kind,
		RetryAt:     until,
	}
}

// Accept builds a successful result.
func Accept(p *Payload) *Result {
	return &Result{Valid: true, Code: CodeValid, Message: CodeValid.Message(), Payload: p}
}
