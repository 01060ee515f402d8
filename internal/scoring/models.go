package scoring

import "strings"

// CompoundType classifies a compound for cultivation and saturation rules.
type CompoundType string

const (
	TypeCannabinoid      CompoundType = "cannabinoid"
	TypeTerpene          CompoundType = "terpene"
	TypeFlavonoid        CompoundType = "flavonoid"
	TypeMinorCannabinoid CompoundType = "minor_cannabinoid"
	TypeUnknown          CompoundType = ""
)

// ParseCompoundType accepts the catalog spellings of a type. Unrecognised
// input yields TypeUnknown and false.
func ParseCompoundType(s string) (CompoundType, bool) {
	switch CompoundType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCannabinoid:
		return TypeCannabinoid, true
	case TypeTerpene:
		return TypeTerpene, true
	case TypeFlavonoid:
		return TypeFlavonoid, true
	case TypeMinorCannabinoid:
		return TypeMinorCannabinoid, true
	}
	return TypeUnknown, false
}

// Compound is one measured constituent of a product. Value is a percentage
// for cannabinoids and flavonoids and a ppm-equivalent for terpenes. Type is
// an optional hint used when the catalog has no record for the name.
type Compound struct {
	Name  string
	Type  CompoundType
	Value float64
}

// Condition is a patient-stated condition with a severity in [1,10].
type Condition struct {
	Name     string
	Severity int
}

// Product is a candidate formulation.
type Product struct {
	Name      string
	GrowStyle string
	Compounds []Compound
}

// PhysicalRecord is what the compound catalog knows about a name.
// BoilingPointF is nil when the catalog has no thermal data for it.
type PhysicalRecord struct {
	Name              string
	Type              CompoundType
	BoilingPointF     *float64
	SynergyMultiplier *float64
	EfficacyWeight    *float64
}

// Catalog is the read-only view of compound data the pipeline scores
// against. Lookups are case-insensitive on name.
type Catalog interface {
	Lookup(name string, hint CompoundType) (PhysicalRecord, bool)
}

// Snapshot is an in-memory Catalog, normally filled once per request so the
// pipeline never performs I/O.
type Snapshot map[string]PhysicalRecord

// CatalogKey normalises a compound name for catalog lookups.
func CatalogKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func typedKey(name string, t CompoundType) string {
	return CatalogKey(name) + "#" + string(t)
}

// Put stores rec as the row returned for its name when no typed row matches.
func (s Snapshot) Put(rec PhysicalRecord) {
	s[CatalogKey(rec.Name)] = rec
}

// PutTyped stores rec as the row returned to compounds hinting rec.Type.
// Products in one request may name the same compound with different hints.
func (s Snapshot) PutTyped(rec PhysicalRecord) {
	s[typedKey(rec.Name, rec.Type)] = rec
}

// Lookup implements Catalog. A typed row matching hint wins over the
// default row for the name.
func (s Snapshot) Lookup(name string, hint CompoundType) (PhysicalRecord, bool) {
	if hint != TypeUnknown {
		if rec, ok := s[typedKey(name, hint)]; ok {
			return rec, true
		}
	}
	rec, ok := s[CatalogKey(name)]
	return rec, ok
}

// UnknownPolicy decides how compounds missing from the catalog are treated.
type UnknownPolicy string

const (
	// AssumeActive treats unknown compounds as fully available.
	AssumeActive UnknownPolicy = "assume_active"
	// FailClosed treats unknown compounds as unavailable.
	FailClosed UnknownPolicy = "fail_closed"
)

// ParseUnknownPolicy parses a policy name. Empty input selects AssumeActive.
func ParseUnknownPolicy(s string) (UnknownPolicy, bool) {
	switch UnknownPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", AssumeActive:
		return AssumeActive, true
	case FailClosed:
		return FailClosed, true
	}
	return "", false
}

// Options tunes a scoring pass.
type Options struct {
	UnknownPolicy UnknownPolicy
}

// Mode is the scoring strategy chosen for a condition.
type Mode string

const (
	ModeRecreational Mode = "recreational"
	ModeCognitive    Mode = "cognitive"
	ModeSomatic      Mode = "somatic"
	ModeAnxiety      Mode = "anxiety"
	ModeGeneral      Mode = "general"
)

// Breakdown explains how one condition was scored. Score is the condition's
// final contribution after the thermal gate and entourage multiplier;
// BaseScore is the mode formula alone.
type Breakdown struct {
	Mode            Mode
	Score           float64
	BaseScore       float64
	Signal          *float64
	Penalties       *float64
	THCContribution *float64
	Multipliers     map[string]float64
	EntourageActive int
}

// Result is the full scoring outcome for one product.
type Result struct {
	ProductName        string
	GrowStyle          string
	Score              float64
	Breakdown          map[string]Breakdown
	Warnings           []string
	ThermalDetails     map[string]ThermalDetail
	SafetyZone         SafetyZone
	CompoundsAvailable int
	CompoundsTotal     int
}
