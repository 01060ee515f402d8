package scoring

import "strings"

type modeKeywords struct {
	mode     Mode
	keywords []string
}

// conditionModes is checked top to bottom; the first entry with a keyword
// contained in the condition name decides the mode.
var conditionModes = []modeKeywords{
	{ModeRecreational, []string{"blitzed", "high", "stoned", "faded", "blasted", "get high"}},
	{ModeCognitive, []string{"adhd", "focus", "clarity", "studying", "concentration", "memory"}},
	{ModeSomatic, []string{"sleep", "insomnia", "pain", "inflammation", "nerve", "neuropathic", "migraine"}},
	{ModeAnxiety, []string{"anxiety", "stress", "panic", "worry"}},
}

// ClassifyCondition picks the scoring mode for a free-text condition name.
func ClassifyCondition(name string) Mode {
	lname := strings.ToLower(name)
	for _, entry := range conditionModes {
		for _, kw := range entry.keywords {
			if strings.Contains(lname, kw) {
				return entry.mode
			}
		}
	}
	return ModeGeneral
}
