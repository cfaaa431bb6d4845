package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/sentinel"
)

// PostgresCatalog reads license types from the license_types table.
type PostgresCatalog struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

func (c *PostgresCatalog) Get(ctx context.Context, id int64) (*models.LicenseTypePolicy, error) {
	var (
		p        models.LicenseTypePolicy
		features pq.StringArray
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT id, slug, name, max_domains, max_subdomains, allow_localhost, allow_staging,
			check_interval_hours, features
		FROM license_types
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Slug, &p.Name, &p.MaxDomains, &p.MaxSubdomains,
		&p.AllowLocalhost, &p.AllowStaging, &p.CheckIntervalHours, &features)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get license type: %w", err)
	}
	p.Features = []string(features)
	return &p, nil
}

// Put upserts a license type by ID.
func (c *PostgresCatalog) Put(ctx context.Context, p *models.LicenseTypePolicy) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO license_types (id, slug, name, max_domains, max_subdomains, allow_localhost,
			allow_staging, check_interval_hours, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			name = EXCLUDED.name,
			max_domains = EXCLUDED.max_domains,
			max_subdomains = EXCLUDED.max_subdomains,
			allow_localhost = EXCLUDED.allow_localhost,
			allow_staging = EXCLUDED.allow_staging,
			check_interval_hours = EXCLUDED.check_interval_hours,
			features = EXCLUDED.features
	`, p.ID, p.Slug, p.Name, p.MaxDomains, p.MaxSubdomains, p.AllowLocalhost, p.AllowStaging,
		p.CheckIntervalHours, pq.Array(p.Features))
	if err != nil {
		return fmt.Errorf("put license type: %w", err)
	}
	return nil
}

// SeedDefaults inserts the built-in catalog without overwriting edited rows.
func (c *PostgresCatalog) SeedDefaults(ctx context.Context) error {
	for _, p := range Defaults() {
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO license_types (id, slug, name, max_domains, max_subdomains, allow_localhost,
				allow_staging, check_interval_hours, features)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, p.ID, p.Slug, p.Name, p.MaxDomains, p.MaxSubdomains, p.AllowLocalhost, p.AllowStaging,
			p.CheckIntervalHours, pq.Array(p.Features))
		if err != nil {
			return fmt.Errorf("seed license type %s: %w", p.Slug, err)
		}
	}
	// keep BIGSERIAL ahead of the explicit seed IDs
	if _, err := c.db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('license_types', 'id'), GREATEST((SELECT MAX(id) FROM license_types), 1))`,
	); err != nil {
		return fmt.Errorf("advance license type sequence: %w", err)
	}
	return nil
}
