package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
	"greenforge/pkg/platform/sentinel"
	"greenforge/pkg/platform/tx"
)

//go:embed schema.sql
var schemaSQL string

const compoundColumns = `name, type, boiling_point, unit, synergy_multiplier, efficacy_weight, benefit`

// PostgresStore reads the compound catalog from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed compound store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the compounds table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create compounds schema: %w", err)
	}
	return nil
}

// FindByName returns every row whose name matches case-insensitively.
func (s *PostgresStore) FindByName(ctx context.Context, name string) ([]models.Compound, error) {
	rows, err := s.FindByNames(ctx, []string{name})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return rows, nil
}

// FindByNames fetches all matching rows in one round trip.
func (s *PostgresStore) FindByNames(ctx context.Context, names []string) ([]models.Compound, error) {
	if len(names) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, scoring.CatalogKey(n))
	}

	query := `SELECT ` + compoundColumns + ` FROM compounds WHERE upper(name) = ANY($1)`
	rows, err := s.db.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("find compounds: %w", err)
	}
	defer rows.Close()
	return scanCompounds(rows)
}

// List returns every row ordered for display.
func (s *PostgresStore) List(ctx context.Context) ([]models.Compound, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+compoundColumns+` FROM compounds ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list compounds: %w", err)
	}
	defer rows.Close()
	out, err := scanCompounds(rows)
	if err != nil {
		return nil, err
	}
	sortCompounds(out)
	return out, nil
}

// Upsert writes rows inside one transaction, joining the caller's
// transaction when ctx carries one.
func (s *PostgresStore) Upsert(ctx context.Context, rows []models.Compound) error {
	return tx.Run(ctx, s.db, func(ctx context.Context, sqlTx *sql.Tx) error {
		stmt, err := sqlTx.PrepareContext(ctx, `
			INSERT INTO compounds (`+compoundColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name, type) DO UPDATE SET
				boiling_point = EXCLUDED.boiling_point,
				unit = EXCLUDED.unit,
				synergy_multiplier = EXCLUDED.synergy_multiplier,
				efficacy_weight = EXCLUDED.efficacy_weight,
				benefit = EXCLUDED.benefit`)
		if err != nil {
			return fmt.Errorf("prepare compound upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			unit := r.Unit
			if unit == "" {
				unit = models.Celsius
			}
			if _, err := stmt.ExecContext(ctx, r.Name, string(r.Type), nullFloat(r.BoilingPoint), string(unit),
				nullFloat(r.SynergyMultiplier), nullFloat(r.EfficacyWeight), r.Benefit); err != nil {
				return fmt.Errorf("upsert compound %q: %w", r.Name, err)
			}
		}
		return nil
	})
}

// Count returns the number of catalog rows.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM compounds`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count compounds: %w", err)
	}
	return n, nil
}

// Health pings the database.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanCompounds(rows *sql.Rows) ([]models.Compound, error) {
	var out []models.Compound
	for rows.Next() {
		var (
			c          models.Compound
			typ, unit  string
			bp, syn, w sql.NullFloat64
		)
		if err := rows.Scan(&c.Name, &typ, &bp, &unit, &syn, &w, &c.Benefit); err != nil {
			return nil, fmt.Errorf("scan compound: %w", err)
		}
		c.Type = scoring.CompoundType(strings.ToLower(typ))
		c.Unit = models.Unit(strings.ToUpper(unit))
		c.BoilingPoint = floatPtr(bp)
		c.SynergyMultiplier = floatPtr(syn)
		c.EfficacyWeight = floatPtr(w)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compounds: %w", err)
	}
	return out, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
