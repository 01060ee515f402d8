package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCondition(t *testing.T) {
	tests := map[string]Mode{
		"Get High":             ModeRecreational,
		"getting STONED":       ModeRecreational,
		"ADHD/Focus":           ModeCognitive,
		"Memory":               ModeCognitive,
		"Neuropathic Pain":     ModeSomatic,
		"Insomnia":             ModeSomatic,
		"Migraine":             ModeSomatic,
		"Anxiety":              ModeAnxiety,
		"Panic attacks":        ModeAnxiety,
		"stress related sleep": ModeSomatic,
		"Appetite":             ModeGeneral,
		"":                     ModeGeneral,
	}
	for name, want := range tests {
		assert.Equal(t, want, ClassifyCondition(name), name)
	}
}

func TestEntourageMultiplier(t *testing.T) {
	assert.Equal(t, 1.0, EntourageMultiplier(0))
	assert.Equal(t, 1.0, EntourageMultiplier(1))
	assert.InDelta(t, 1.1, EntourageMultiplier(2), 1e-9)
	assert.InDelta(t, 1.2, EntourageMultiplier(3), 1e-9)
	assert.InDelta(t, 1.5, EntourageMultiplier(6), 1e-9)
}
