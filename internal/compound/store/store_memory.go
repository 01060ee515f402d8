package store

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"greenforge/internal/compound/models"
	"greenforge/internal/scoring"
	"greenforge/pkg/platform/sentinel"
	"greenforge/pkg/platform/units"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Compounds []models.Compound `yaml:"compounds"`
}

// ParseCatalog decodes and validates a YAML compound catalog. Rows with an
// unknown type, a unit other than C or F, or a non-finite number are
// rejected.
func ParseCatalog(data []byte) ([]models.Compound, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode compound catalog: %w", err)
	}
	for i := range file.Compounds {
		c := &file.Compounds[i]
		if c.Name == "" {
			return nil, fmt.Errorf("compound catalog row %d: name is required", i)
		}
		if _, ok := scoring.ParseCompoundType(string(c.Type)); !ok {
			return nil, fmt.Errorf("compound %q: unknown type %q", c.Name, c.Type)
		}
		if c.Unit == "" {
			c.Unit = models.Celsius
		}
		if c.Unit != models.Celsius && c.Unit != models.Fahrenheit {
			return nil, fmt.Errorf("compound %q: unknown unit %q", c.Name, c.Unit)
		}
		for label, v := range map[string]*float64{
			"boiling_point":      c.BoilingPoint,
			"synergy_multiplier": c.SynergyMultiplier,
			"efficacy_weight":    c.EfficacyWeight,
		} {
			if v != nil && !units.IsFinite(*v) {
				return nil, fmt.Errorf("compound %q: %s must be finite", c.Name, label)
			}
		}
	}
	return file.Compounds, nil
}

// DefaultCatalog returns the compound catalog compiled into the binary.
func DefaultCatalog() ([]models.Compound, error) {
	return ParseCatalog(embeddedCatalog)
}

// InMemoryStore serves compound rows from memory, keyed by upper-cased name.
type InMemoryStore struct {
	mu     sync.RWMutex
	byName map[string][]models.Compound
}

// NewInMemoryStore builds a store holding rows.
func NewInMemoryStore(rows []models.Compound) *InMemoryStore {
	s := &InMemoryStore{byName: make(map[string][]models.Compound, len(rows))}
	for _, r := range rows {
		key := scoring.CatalogKey(r.Name)
		s.byName[key] = append(s.byName[key], r)
	}
	return s
}

// NewDefaultStore builds a store from the embedded catalog.
func NewDefaultStore() (*InMemoryStore, error) {
	rows, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return NewInMemoryStore(rows), nil
}

// FindByName returns every row for name, or sentinel.ErrNotFound.
func (s *InMemoryStore) FindByName(_ context.Context, name string) ([]models.Compound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.byName[scoring.CatalogKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.Compound(nil), rows...), nil
}

// FindByNames returns the rows matching any of names. Missing names are
// simply absent from the result.
func (s *InMemoryStore) FindByNames(_ context.Context, names []string) ([]models.Compound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Compound
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := scoring.CatalogKey(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s.byName[key]...)
	}
	return out, nil
}

// List returns every row sorted by type precedence, then name.
func (s *InMemoryStore) List(_ context.Context) ([]models.Compound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Compound
	for _, rows := range s.byName {
		out = append(out, rows...)
	}
	sortCompounds(out)
	return out, nil
}

// Upsert inserts or replaces rows keyed by name and type.
func (s *InMemoryStore) Upsert(_ context.Context, rows []models.Compound) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		key := scoring.CatalogKey(r.Name)
		existing := s.byName[key]
		replaced := false
		for i := range existing {
			if existing[i].Type == r.Type {
				existing[i] = r
				replaced = true
			}
		}
		if !replaced {
			existing = append(existing, r)
		}
		s.byName[key] = existing
	}
	return nil
}

// Health always succeeds for the in-memory store.
func (s *InMemoryStore) Health(context.Context) error {
	return nil
}

func sortCompounds(rows []models.Compound) {
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := models.TypeRank(rows[i].Type), models.TypeRank(rows[j].Type)
		if ri != rj {
			return ri < rj
		}
		return rows[i].Name < rows[j].Name
	})
}
