package store

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"greenforge/internal/strain/models"
	"greenforge/pkg/platform/sentinel"
)

//go:embed strains.yaml
var embeddedLibrary []byte

type libraryFile struct {
	Strains []models.Variant `yaml:"strains"`
}

// ParseLibrary decodes a YAML strain library.
func ParseLibrary(data []byte) ([]models.Variant, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode strain library: %w", err)
	}
	for i, v := range file.Strains {
		if v.Name == "" || v.GrowStyle == "" {
			return nil, fmt.Errorf("strain library row %d: name and grow_style are required", i)
		}
	}
	return file.Strains, nil
}

// DefaultLibrary returns the strain library compiled into the binary.
func DefaultLibrary() ([]models.Variant, error) {
	return ParseLibrary(embeddedLibrary)
}

func strainKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// InMemoryStore serves the strain library from memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	names    []string
	variants map[string][]models.Variant
}

// NewInMemoryStore indexes variants by strain name, keeping input order.
func NewInMemoryStore(variants []models.Variant) *InMemoryStore {
	s := &InMemoryStore{variants: make(map[string][]models.Variant)}
	for _, v := range variants {
		key := strainKey(v.Name)
		if _, ok := s.variants[key]; !ok {
			s.names = append(s.names, v.Name)
		}
		s.variants[key] = append(s.variants[key], v)
	}
	sort.Strings(s.names)
	return s
}

// NewDefaultStore builds a store from the embedded library.
func NewDefaultStore() (*InMemoryStore, error) {
	variants, err := DefaultLibrary()
	if err != nil {
		return nil, err
	}
	return NewInMemoryStore(variants), nil
}

// ListNames returns the distinct strain names, sorted.
func (s *InMemoryStore) ListNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.names...), nil
}

// FindVariants returns every grow context recorded for name.
func (s *InMemoryStore) FindVariants(_ context.Context, name string) ([]models.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variants[strainKey(name)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.Variant{}, v...), nil
}

// All returns every variant in the library.
func (s *InMemoryStore) All(_ context.Context) ([]models.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Variant
	for _, n := range s.names {
		out = append(out, s.variants[strainKey(n)]...)
	}
	return out, nil
}
