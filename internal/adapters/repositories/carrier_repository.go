package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"strings"
)

// SQLCarrierRepository implements the CarrierRoster port over database/sql.
// List columns are stored as JSON arrays.
type SQLCarrierRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLCarrierRepository(db *sql.DB, d Dialect) *SQLCarrierRepository {
	return &SQLCarrierRepository{DB: db, Dialect: d}
}

// ListCarriers returns the roster in seeded order.
func (r *SQLCarrierRepository) ListCarriers(ctx context.Context) (_ []domain.Carrier, err error) {
	defer obs.Time(ctx, "carriers.ListCarriers")(&err)

	if r.DB == nil {
		return nil, errors.New("carrier repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT name, capabilities, certifications, service_areas, specialties
	FROM carriers
	ORDER BY position, name;
	`)
	if err != nil {
		return nil, fmt.Errorf("list carriers: query carriers table: %w", err)
	}
	defer rows.Close()

	carriers := make([]domain.Carrier, 0, 16)
	for rows.Next() {
		var c domain.Carrier
		var caps, certs, areas, specs string
		if err := rows.Scan(&c.Name, &caps, &certs, &areas, &specs); err != nil {
			return nil, fmt.Errorf("list carriers: scan row: %w", err)
		}

		for _, col := range []struct {
			raw string
			dst *[]string
		}{
			{caps, &c.Capabilities},
			{certs, &c.Certifications},
			{areas, &c.ServiceAreas},
			{specs, &c.Specialties},
		} {
			if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
				return nil, fmt.Errorf("list carriers: decode %q: %w", c.Name, err)
			}
		}
		carriers = append(carriers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list carriers: row iteration: %w", err)
	}
	return carriers, nil
}

// SeedCarriers upserts carriers, recording their slice position as roster order.
func (r *SQLCarrierRepository) SeedCarriers(ctx context.Context, carriers []domain.Carrier) error {
	if r.DB == nil {
		return errors.New("seed carriers: DB is nil")
	}

	for i, c := range carriers {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("seed carriers: carrier at index %d has no name", i+1)
		}
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed carriers: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, r.Dialect.rebind(`
	INSERT INTO carriers (name, position, capabilities, certifications, service_areas, specialties)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (name) DO UPDATE
	SET position = excluded.position,
		capabilities = excluded.capabilities,
		certifications = excluded.certifications,
		service_areas = excluded.service_areas,
		specialties = excluded.specialties;
	`))
	if err != nil {
		return fmt.Errorf("seed carriers: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range carriers {
		cols := make([]any, 0, 6)
		cols = append(cols, strings.TrimSpace(c.Name), i)
		for _, list := range [][]string{c.Capabilities, c.Certifications, c.ServiceAreas, c.Specialties} {
			if list == nil {
				list = []string{}
			}
			b, err := json.Marshal(list)
			if err != nil {
				return fmt.Errorf("seed carriers: encode %q: %w", c.Name, err)
			}
			cols = append(cols, string(b))
		}

		if _, err := stmt.ExecContext(ctx, cols...); err != nil {
			return fmt.Errorf("seed carriers: insert %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed carriers: commit tx: %w", err)
	}
	return nil
}

// SeedCarriersFromJSON loads a JSON array of carriers and seeds them.
func (r *SQLCarrierRepository) SeedCarriersFromJSON(ctx context.Context, jsonPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed carriers: read %q: %w", jsonPath, err)
	}

	var carriers []domain.Carrier
	if err := json.Unmarshal(data, &carriers); err != nil {
		return fmt.Errorf("seed carriers: parse json: %w", err)
	}

	return r.SeedCarriers(ctx, carriers)
}
