// Package fingerprint derives and verifies per-site fingerprints.
//
// A fingerprint is HMAC-SHA256 over the normalized domain and a fixed set of site
// metadata keys, keyed with a server secret. Nothing request-time-varying goes into
// the input, so an unchanged site reproduces the same hash on every check-in.
package fingerprint

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"slices"
	"strconv"
	"strings"

	"licenseguard/internal/license/domainclass"
)

// Declared metadata keys. Anything else a client sends is ignored.
const (
	KeyRuntimeVersion  = "runtime_version"
	KeyPlatformVersion = "platform_version"
	KeyServerSoftware  = "server_software"
	KeyDocumentRoot    = "document_root"
)

var declaredKeys = []string{KeyDocumentRoot, KeyPlatformVersion, KeyRuntimeVersion, KeyServerSoftware}

// HashLength is the hex length of a fingerprint.
const HashLength = sha256.Size * 2

// SiteMetadata is the client-reported description of the installation.
type SiteMetadata map[string]string

// Codec generates and verifies fingerprints with a fixed secret.
type Codec struct {
	secret []byte
}

// New returns a Codec. The secret must be non-empty.
func New(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("fingerprint secret is required")
	}
	return &Codec{secret: slices.Clone(secret)}, nil
}

// Generate returns the hex fingerprint for domain and meta.
func (c *Codec) Generate(domain string, meta SiteMetadata) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(canonical(domain, meta)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether hash matches the fingerprint of domain and meta.
func (c *Codec) Verify(hash, domain string, meta SiteMetadata) bool {
	if len(hash) != HashLength {
		return false
	}
	expected := c.Generate(domain, meta)
	return hmac.Equal([]byte(strings.ToLower(hash)), []byte(expected))
}

// canonical encodes the input as sorted key=value lines, domain first.
// Values are quoted so a newline inside a value cannot forge another line.
func canonical(domain string, meta SiteMetadata) string {
	var b strings.Builder
	b.WriteString("domain=")
	b.WriteString(domainclass.Normalize(domain))
	for _, k := range declaredKeys {
		b.WriteByte('\n')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(strings.TrimSpace(meta[k])))
	}
	return b.String()
}
