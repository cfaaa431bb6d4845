// Package domainclass categorizes activation domains.
//
// Subdomain detection is label-depth based: more than two labels is a subdomain and
// the rightmost two labels are its apex. Multi-part public suffixes (co.uk) are not
// special-cased, so "shop.example.co.uk" groups under "co.uk".
package domainclass

import (
	"net/netip"
	"strings"
)

// Kind is the category of a domain.
type Kind int

const (
	Apex Kind = iota
	Subdomain
	LocalOrStaging
)

func (k Kind) String() string {
	switch k {
	case Apex:
		return "apex"
	case Subdomain:
		return "subdomain"
	case LocalOrStaging:
		return "local_or_staging"
	}
	return "unknown"
}

// Classification is the result of Classify.
// Apex is set for Apex and Subdomain kinds. Staging distinguishes staging suffixes
// from loopback/private hosts within LocalOrStaging.
type Classification struct {
	Kind    Kind
	Domain  string
	Apex    string
	Staging bool
}

var stagingSuffixes = []string{".local", ".test", ".dev", ".staging"}

// Normalize lowercases the domain and strips scheme, credentials, path, port and trailing dot.
func Normalize(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, "@"); i >= 0 {
		d = d[i+1:]
	}
	if strings.HasPrefix(d, "[") {
		if end := strings.Index(d, "]"); end > 0 {
			return d[1:end]
		}
	}
	if strings.Count(d, ":") == 1 {
		d = d[:strings.Index(d, ":")]
	}
	return strings.TrimSuffix(d, ".")
}

// Classify categorizes domain. It performs no I/O.
func Classify(domain string) Classification {
	d := Normalize(domain)

	if addr, err := netip.ParseAddr(d); err == nil {
		if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() || addr.IsLinkLocalUnicast() {
			return Classification{Kind: LocalOrStaging, Domain: d}
		}
		return Classification{Kind: Apex, Domain: d, Apex: d}
	}

	if d == "localhost" || strings.HasSuffix(d, ".localhost") {
		return Classification{Kind: LocalOrStaging, Domain: d}
	}
	for _, suffix := range stagingSuffixes {
		if strings.HasSuffix(d, suffix) {
			return Classification{Kind: LocalOrStaging, Domain: d, Staging: true}
		}
	}

	labels := strings.Split(d, ".")
	if len(labels) > 2 {
		return Classification{Kind: Subdomain, Domain: d, Apex: strings.Join(labels[len(labels)-2:], ".")}
	}
	return Classification{Kind: Apex, Domain: d, Apex: d}
}

// SubdomainsOf counts the domains in activated that are subdomains of apex.
func SubdomainsOf(apex string, activated []string) int {
	n := 0
	for _, d := range activated {
		c := Classify(d)
		if c.Kind == Subdomain && c.Apex == apex {
			n++
		}
	}
	return n
}
