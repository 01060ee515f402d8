package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/lib/pq"

	"greenforge/internal/strain/models"
	"greenforge/pkg/platform/sentinel"
	"greenforge/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

const variantColumns = `strain_name, grow_style, archetype, thc, cbd, thcv, cbg, cbn,
	terpene_names, terpene_values, cannflavin_a, vsc_present`

// PostgresStore persists the strain library. Terpenes are stored as two
// parallel arrays.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed strain store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the strain_variants table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create strain schema: %w", err)
	}
	return nil
}

// ListNames returns the distinct strain names, sorted.
func (s *PostgresStore) ListNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT strain_name FROM strain_variants ORDER BY strain_name`)
	if err != nil {
		return nil, fmt.Errorf("list strains: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan strain name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// FindVariants returns every grow context recorded for name.
func (s *PostgresStore) FindVariants(ctx context.Context, name string) ([]models.Variant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+variantColumns+` FROM strain_variants WHERE lower(strain_name) = lower($1) ORDER BY grow_style`, name)
	if err != nil {
		return nil, fmt.Errorf("find strain variants: %w", err)
	}
	defer rows.Close()

	var out []models.Variant
	for rows.Next() {
		var (
			v      models.Variant
			names  pq.StringArray
			values pq.Float64Array
		)
		if err := rows.Scan(&v.Name, &v.GrowStyle, &v.Archetype, &v.THC, &v.CBD, &v.THCV, &v.CBG, &v.CBN,
			&names, &values, &v.CannflavinA, &v.VSCPresent); err != nil {
			return nil, fmt.Errorf("scan strain variant: %w", err)
		}
		if len(names) != len(values) {
			return nil, fmt.Errorf("strain %q/%s terpene arrays differ in length: %w", v.Name, v.GrowStyle, sentinel.ErrInvalidState)
		}
		for i := range names {
			v.Terpenes = append(v.Terpenes, models.TerpeneLevel{Name: names[i], Value: values[i]})
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate strain variants: %w", err)
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out, nil
}

// Upsert writes variants inside one transaction, joining the caller's
// transaction when ctx carries one.
func (s *PostgresStore) Upsert(ctx context.Context, variants []models.Variant) error {
	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		for _, v := range variants {
			names := make([]string, 0, len(v.Terpenes))
			values := make([]float64, 0, len(v.Terpenes))
			for _, t := range v.Terpenes {
				names = append(names, t.Name)
				values = append(values, t.Value)
			}
			_, err := sqlTx.ExecContext(ctx, `
				INSERT INTO strain_variants (`+variantColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (strain_name, grow_style) DO UPDATE SET
					archetype = EXCLUDED.archetype,
					thc = EXCLUDED.thc, cbd = EXCLUDED.cbd, thcv = EXCLUDED.thcv,
					cbg = EXCLUDED.cbg, cbn = EXCLUDED.cbn,
					terpene_names = EXCLUDED.terpene_names,
					terpene_values = EXCLUDED.terpene_values,
					cannflavin_a = EXCLUDED.cannflavin_a,
					vsc_present = EXCLUDED.vsc_present`,
				v.Name, v.GrowStyle, v.Archetype, v.THC, v.CBD, v.THCV, v.CBG, v.CBN,
				pq.Array(names), pq.Array(values), v.CannflavinA, v.VSCPresent)
			if err != nil {
				return fmt.Errorf("upsert strain %q/%s: %w", v.Name, v.GrowStyle, err)
			}
		}
		return nil
	})
}

// Count returns the number of stored variants.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM strain_variants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count strain variants: %w", err)
	}
	return n, nil
}
