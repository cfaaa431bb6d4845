package models

import "time"

// RestrictionKind distinguishes the two time-bounded restrictions.
type RestrictionKind string

const (
	RestrictionThrottle RestrictionKind = "throttled"
	RestrictionBlock    RestrictionKind = "blocked"
)

// IsValid checks if the kind is one of the supported enum values.
func (k RestrictionKind) IsValid() bool {
	return k == RestrictionThrottle || k == RestrictionBlock
}

// RestrictionState is the countermeasure state consulted by the restriction gate.
type RestrictionState struct {
	LicenseKey       string     `json:"license_key"`
	ThrottledUntil   *time.Time `json:"throttled_until,omitempty"`
	BlockedUntil     *time.Time `json:"blocked_until,omitempty"`
	FlaggedForReview bool       `json:"flagged_for_review"`
	FlagReason       string     `json:"flag_reason,omitempty"`
	FlaggedAt        *time.Time `json:"flagged_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ActiveAt returns the restriction in force at now. Block wins over throttle.
func (r *RestrictionState) ActiveAt(now time.Time) (RestrictionKind, *time.Time, bool) {
	if r == nil {
		return "", nil, false
	}
	if r.BlockedUntil != nil && r.BlockedUntil.After(now) {
		return RestrictionBlock, r.BlockedUntil, true
	}
	if r.ThrottledUntil != nil && r.ThrottledUntil.After(now) {
		return RestrictionThrottle, r.ThrottledUntil, true
	}
	return "", nil, false
}

// Until returns the timestamp for kind.
func (r *RestrictionState) Until(kind RestrictionKind) *time.Time {
	switch kind {
	case RestrictionThrottle:
		return r.ThrottledUntil
	case RestrictionBlock:
		return r.BlockedUntil
	}
	return nil
}

// ExpiredKinds lists restrictions whose timestamp has elapsed at now.
func (r *RestrictionState) ExpiredKinds(now time.Time) []RestrictionKind {
	var kinds []RestrictionKind
	if r.ThrottledUntil != nil && !r.ThrottledUntil.After(now) {
		kinds = append(kinds, RestrictionThrottle)
	}
	if r.BlockedUntil != nil && !r.BlockedUntil.After(now) {
		kinds = append(kinds, RestrictionBlock)
	}
	return kinds
}

// Clone returns a copy safe to hand out of a store.
func (r *RestrictionState) Clone() *RestrictionState {
	if r == nil {
		return nil
	}
	c := *r
	c.ThrottledUntil = cloneTime(r.ThrottledUntil)
	c.BlockedUntil = cloneTime(r.BlockedUntil)
	c.FlaggedAt = cloneTime(r.FlaggedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
