package incident

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"licenseguard/internal/license/models"
	"licenseguard/pkg/platform/tx"
)

// PostgresStore writes incidents to license_incidents with additional data as JSONB.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, incident *models.Incident) error {
	data, err := json.Marshal(incident.AdditionalData)
	if err != nil {
		return fmt.Errorf("marshal incident data: %w", err)
	}
	_, err = tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO license_incidents (id, license_key, incident_type, severity, description, ip_address, created_at, additional_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, incident.ID, incident.LicenseKey, string(incident.Type), string(incident.Severity),
		incident.Description, incident.IPAddress, incident.Timestamp, string(data))
	if err != nil {
		return fmt.Errorf("insert incident: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByLicense(ctx context.Context, key string, limit int) ([]*models.Incident, error) {
	query := `
		SELECT id, license_key, incident_type, severity, description, ip_address, created_at, additional_data
		FROM license_incidents
		WHERE license_key = $1
		ORDER BY created_at DESC, id
	`
	args := []any{key}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []*models.Incident
	for rows.Next() {
		var (
			inc      models.Incident
			typ, sev string
			data     []byte
		)
		if err := rows.Scan(&inc.ID, &inc.LicenseKey, &typ, &sev, &inc.Description,
			&inc.IPAddress, &inc.Timestamp, &data); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.Type = models.IncidentType(typ)
		inc.Severity = models.Severity(sev)
		if err := json.Unmarshal(data, &inc.AdditionalData); err != nil {
			return nil, fmt.Errorf("unmarshal incident data: %w", err)
		}
		out = append(out, &inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return out, nil
}
