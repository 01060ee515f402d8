package scoring

import (
	"slices"
	"strings"
)

// growGroup collects grow-style tags that share cultivation effects.
type growGroup int

const (
	groupNone growGroup = iota
	groupSunlight
	groupSoil
	groupDrought
	groupHydro
)

var growStyleGroups = map[string]growGroup{
	"sun_grown":      groupSunlight,
	"sunlight":       groupSunlight,
	"outdoor":        groupSunlight,
	"living_soil":    groupSoil,
	"organic":        groupSoil,
	"soil":           groupSoil,
	"drought_stress": groupDrought,
	"crop_steering":  groupDrought,
	"generative":     groupDrought,
	"hydroponic":     groupHydro,
	"hydro":          groupHydro,
	"rockwool":       groupHydro,
	"coco":           groupHydro,
}

// cultivationRule matches a compound by type and lower-cased name. Empty
// types or names match anything.
type cultivationRule struct {
	group      growGroup
	types      []CompoundType
	names      []string
	multiplier float64
}

// Rules are evaluated in order and the first match wins, so a compound is
// never modified twice.
var cultivationRules = []cultivationRule{
	{groupSunlight, []CompoundType{TypeFlavonoid}, []string{"quercetin", "cannflavin a", "cannflavin b"}, 1.4},
	{groupSoil, []CompoundType{TypeTerpene}, []string{"caryophyllene", "beta-caryophyllene", "β-caryophyllene", "humulene"}, 1.25},
	{groupSoil, []CompoundType{TypeFlavonoid}, nil, 1.25},
	{groupDrought, nil, nil, 1.15},
	{groupHydro, []CompoundType{TypeCannabinoid}, []string{"thc", "cbd"}, 1.10},
	{groupHydro, []CompoundType{TypeFlavonoid}, nil, 0.80},
}

// NormalizeGrowStyle lower-cases a tag and folds '-' and ' ' into '_' so
// "Sun-Grown" and "living soil" resolve like their canonical spellings.
func NormalizeGrowStyle(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}

func groupOf(style string) growGroup {
	return growStyleGroups[NormalizeGrowStyle(style)]
}

// CultivationMultiplier returns the factor a grow style applies to a
// compound. Unmatched styles and compounds yield 1.0.
func CultivationMultiplier(name string, typ CompoundType, growStyle string) float64 {
	group := groupOf(growStyle)
	if group == groupNone {
		return 1.0
	}
	lname := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range cultivationRules {
		if rule.group != group {
			continue
		}
		if len(rule.types) > 0 && !slices.Contains(rule.types, typ) {
			continue
		}
		if len(rule.names) > 0 && !slices.Contains(rule.names, lname) {
			continue
		}
		return rule.multiplier
	}
	return 1.0
}

// ApplyCultivation rescales value by the grow-style multiplier.
func ApplyCultivation(name string, typ CompoundType, growStyle string, value float64) float64 {
	return value * CultivationMultiplier(name, typ, growStyle)
}

func isSoilGrown(growStyle string) bool {
	return groupOf(growStyle) == groupSoil
}
