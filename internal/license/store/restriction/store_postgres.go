package restriction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/tx"
	"licenseguard/pkg/requestcontext"
)

// PostgresStore persists restriction state in license_restrictions. Each write is a
// single statement, so Postgres row locking gives per-license atomicity.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const restrictionColumns = `license_key, throttled_until, blocked_until, flagged_for_review, flag_reason, flagged_at, updated_at`

func (s *PostgresStore) Get(ctx context.Context, key string) (*models.RestrictionState, error) {
	state, err := scanRestriction(tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+restrictionColumns+` FROM license_restrictions WHERE license_key = $1`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restriction: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) Restrict(ctx context.Context, key string, kind models.RestrictionKind, until time.Time) (*models.RestrictionState, error) {
	column, err := untilColumn(kind)
	if err != nil {
		return nil, err
	}
	// GREATEST ignores NULL, so an existing later expiry always wins.
	query := fmt.Sprintf(`
		INSERT INTO license_restrictions (license_key, %[1]s, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (license_key) DO UPDATE SET
			%[1]s = GREATEST(license_restrictions.%[1]s, EXCLUDED.%[1]s),
			updated_at = EXCLUDED.updated_at
		RETURNING `+restrictionColumns, column)
	state, err := scanRestriction(tx.Exec(ctx, s.db).QueryRowContext(ctx, query, key, until, requestcontext.Now(ctx)))
	if err != nil {
		return nil, fmt.Errorf("restrict license: %w", err)
	}
	return state, nil
}

func (s *PostgresStore) Flag(ctx context.Context, key, reason string, at time.Time) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO license_restrictions (license_key, flagged_for_review, flag_reason, flagged_at, updated_at)
		VALUES ($1, TRUE, $2, $3, $3)
		ON CONFLICT (license_key) DO UPDATE SET
			flagged_for_review = TRUE,
			flag_reason = EXCLUDED.flag_reason,
			flagged_at = EXCLUDED.flagged_at,
			updated_at = EXCLUDED.updated_at
	`, key, reason, at)
	if err != nil {
		return fmt.Errorf("flag license: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListExpired(ctx context.Context, now time.Time) ([]*models.RestrictionState, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT `+restrictionColumns+`
		FROM license_restrictions
		WHERE throttled_until <= $1 OR blocked_until <= $1
		ORDER BY license_key
	`, now)
	if err != nil {
		return nil, fmt.Errorf("list expired restrictions: %w", err)
	}
	defer rows.Close()

	var out []*models.RestrictionState
	for rows.Next() {
		state, err := scanRestriction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restriction: %w", err)
		}
		out = append(out, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restrictions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ClearExpired(ctx context.Context, key string, kind models.RestrictionKind, now time.Time) (bool, time.Time, error) {
	column, err := untilColumn(kind)
	if err != nil {
		return false, time.Time{}, err
	}
	// The CTE reads the pre-update value for the audit trail.
	query := fmt.Sprintf(`
		WITH prior AS (
			SELECT license_key, %[1]s AS expired_at
			FROM license_restrictions
			WHERE license_key = $1 AND %[1]s <= $2
			FOR UPDATE
		)
		UPDATE license_restrictions r
		SET %[1]s = NULL, updated_at = $2
		FROM prior
		WHERE r.license_key = prior.license_key
		RETURNING prior.expired_at
	`, column)
	var expiredAt time.Time
	err = tx.Exec(ctx, s.db).QueryRowContext(ctx, query, key, now).Scan(&expiredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, time.Time{}, nil
	}
	if err != nil {
		return false, time.Time{}, fmt.Errorf("clear expired restriction: %w", err)
	}
	return true, expiredAt, nil
}

func (s *PostgresStore) ClearAll(ctx context.Context, key string) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM license_restrictions WHERE license_key = $1`, key)
	if err != nil {
		return fmt.Errorf("clear restriction: %w", err)
	}
	return nil
}

func untilColumn(kind models.RestrictionKind) (string, error) {
	switch kind {
	case models.RestrictionThrottle:
		return "throttled_until", nil
	case models.RestrictionBlock:
		return "blocked_until", nil
	}
	return "", fmt.Errorf("unknown restriction kind %q", kind)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestriction(row rowScanner) (*models.RestrictionState, error) {
	var state models.RestrictionState
	var throttled, blocked, flagged sql.NullTime
	if err := row.Scan(&state.LicenseKey, &throttled, &blocked, &state.FlaggedForReview,
		&state.FlagReason, &flagged, &state.UpdatedAt); err != nil {
		return nil, err
	}
	state.ThrottledUntil = nullTime(throttled)
	state.BlockedUntil = nullTime(blocked)
	state.FlaggedAt = nullTime(flagged)
	return &state, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
