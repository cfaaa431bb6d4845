package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
	"licenseguard/pkg/platform/tx"
)

// PostgresStore persists licenses in `licenses` and their activated domains in
// `license_activations`. Mutations lock the license row for the duration of the transaction,
// which serializes activations per license.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Put upserts the license row. Activations are left untouched.
func (s *PostgresStore) Put(ctx context.Context, record *models.LicenseRecord) error {
	query := `
		INSERT INTO licenses (license_key, status, product_id, expiry_date, activation_limit, license_type_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		ON CONFLICT (license_key) DO UPDATE SET
			status = EXCLUDED.status,
			product_id = EXCLUDED.product_id,
			expiry_date = EXCLUDED.expiry_date,
			activation_limit = EXCLUDED.activation_limit,
			license_type_id = EXCLUDED.license_type_id,
			version = licenses.version + 1
	`
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, query,
		record.Key, string(record.Status), record.ProductID, record.ExpiryDate,
		record.ActivationLimit, record.LicenseTypeID,
	)
	if err != nil {
		return fmt.Errorf("put license: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*models.LicenseRecord, error) {
	exec := tx.Exec(ctx, s.db)
	record, err := scanLicense(exec.QueryRowContext(ctx, `
		SELECT license_key, status, product_id, expiry_date, activation_limit, license_type_id, version
		FROM licenses
		WHERE license_key = $1
	`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get license: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT domain, COALESCE(fingerprint, '')
		FROM license_activations
		WHERE license_key = $1
		ORDER BY activated_at, domain
	`, key)
	if err != nil {
		return nil, fmt.Errorf("list activations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var domain, fingerprint string
		if err := rows.Scan(&domain, &fingerprint); err != nil {
			return nil, fmt.Errorf("scan activation: %w", err)
		}
		record.ActivatedDomains = append(record.ActivatedDomains, domain)
		if fingerprint != "" {
			record.Fingerprints[domain] = fingerprint
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activations: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) TryActivateDomain(ctx context.Context, key string, req models.ActivationRequest) (models.ActivationResult, error) {
	var result models.ActivationResult
	err := tx.Run(ctx, s.db, nil, func(ctx context.Context, t *sql.Tx) error {
		limit, err := lockLicense(ctx, t, key)
		if err != nil {
			return err
		}

		var exists bool
		if err := t.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM license_activations WHERE license_key = $1 AND domain = $2)`,
			key, req.Domain,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check activation: %w", err)
		}
		if exists {
			result = models.ActivationAlreadyActive
			return nil
		}

		if limit != models.UnlimitedActivations {
			var count int
			if err := t.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM license_activations WHERE license_key = $1`, key,
			).Scan(&count); err != nil {
				return fmt.Errorf("count activations: %w", err)
			}
			if count >= limit {
				result = models.ActivationLimitExceeded
				return nil
			}
		}

		if req.Apex != "" && req.MaxSubdomains >= 0 {
			var subdomains int
			if err := t.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM license_activations WHERE license_key = $1 AND apex = $2 AND is_subdomain`,
				key, req.Apex,
			).Scan(&subdomains); err != nil {
				return fmt.Errorf("count subdomains: %w", err)
			}
			if subdomains >= req.MaxSubdomains {
				result = models.ActivationSubdomainLimitExceeded
				return nil
			}
		}

		var apex sql.NullString
		if req.Apex != "" {
			apex = sql.NullString{String: req.Apex, Valid: true}
		}
		if _, err := t.ExecContext(ctx, `
			INSERT INTO license_activations (license_key, domain, apex, is_subdomain)
			VALUES ($1, $2, $3, $4)
		`, key, req.Domain, apex, req.Apex != ""); err != nil {
			return fmt.Errorf("insert activation: %w", err)
		}
		if err := bumpVersion(ctx, t, key); err != nil {
			return err
		}
		result = models.ActivationActivated
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *PostgresStore) DeactivateDomain(ctx context.Context, key, domain string) (models.DeactivationResult, error) {
	var result models.DeactivationResult
	err := tx.Run(ctx, s.db, nil, func(ctx context.Context, t *sql.Tx) error {
		if _, err := lockLicense(ctx, t, key); err != nil {
			return err
		}
		res, err := t.ExecContext(ctx,
			`DELETE FROM license_activations WHERE license_key = $1 AND domain = $2`, key, domain)
		if err != nil {
			return fmt.Errorf("delete activation: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete activation rows: %w", err)
		}
		if affected == 0 {
			result = models.DeactivationNotPresent
			return nil
		}
		result = models.DeactivationRemoved
		return bumpVersion(ctx, t, key)
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func (s *PostgresStore) BindFingerprint(ctx context.Context, key, domain, hash string) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		UPDATE license_activations
		SET fingerprint = $3
		WHERE license_key = $1 AND domain = $2 AND (fingerprint IS NULL OR fingerprint = '')
	`, key, domain, hash)
	if err != nil {
		return fmt.Errorf("bind fingerprint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("bind fingerprint rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: either already bound or the domain is not activated.
	var exists bool
	if err := tx.Exec(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM license_activations WHERE license_key = $1 AND domain = $2)`,
		key, domain,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check activation: %w", err)
	}
	if !exists {
		return sentinel.ErrInvalidState
	}
	return nil
}

// lockLicense takes the row lock and returns the activation limit.
func lockLicense(ctx context.Context, t *sql.Tx, key string) (int, error) {
	var limit int
	err := t.QueryRowContext(ctx,
		`SELECT activation_limit FROM licenses WHERE license_key = $1 FOR UPDATE`, key,
	).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lock license: %w", err)
	}
	return limit, nil
}

func bumpVersion(ctx context.Context, t *sql.Tx, key string) error {
	if _, err := t.ExecContext(ctx, `UPDATE licenses SET version = version + 1 WHERE license_key = $1`, key); err != nil {
		return fmt.Errorf("bump license version: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicense(row rowScanner) (*models.LicenseRecord, error) {
	var (
		record models.LicenseRecord
		status string
		expiry sql.NullTime
		typeID sql.NullInt64
	)
	if err := row.Scan(&record.Key, &status, &record.ProductID, &expiry,
		&record.ActivationLimit, &typeID, &record.Version); err != nil {
		return nil, err
	}
	record.Status = models.Status(status)
	if expiry.Valid {
		t := expiry.Time
		record.ExpiryDate = &t
	}
	if typeID.Valid {
		id := typeID.Int64
		record.LicenseTypeID = &id
	}
	record.ActivatedDomains = []string{}
	record.Fingerprints = map[string]string{}
	return &record, nil
}
