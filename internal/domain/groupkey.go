package domain

import (
	"strconv"
	"strings"
)

// GroupKey identifies one logical class on the board. Two physical class rows
// that differ only by section collapse into the same key when the level is
// combinable, so split rings (Novice A / Novice B) display as a single class.
type GroupKey struct {
	TrialDate   string
	TrialNumber int
	Element     string
	Level       string
	Section     string
}

// combinableLevels are the level categories whose A/B sections run as one
// logical class for progress and status purposes.
var combinableLevels = map[string]bool{
	"novice": true,
}

// IsCombinableLevel reports whether parallel sections of the level merge.
func IsCombinableLevel(level string) bool {
	return combinableLevels[strings.ToLower(strings.TrimSpace(level))]
}

// NewGroupKey derives the merge key for a class or entry row. The same
// function must be used for both record kinds: classes carry no foreign key to
// the merged group, and entries carry no foreign key to the merged class, so
// key equality is the only association between the two views.
func NewGroupKey(trialDate string, trialNumber int, element, level, section string) GroupKey {
	key := GroupKey{
		TrialDate:   strings.TrimSpace(trialDate),
		TrialNumber: trialNumber,
		Element:     normalizeKeyPart(element),
		Level:       normalizeKeyPart(level),
	}
	if !IsCombinableLevel(level) {
		key.Section = normalizeKeyPart(section)
	}
	return key
}

func normalizeKeyPart(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// String renders the key for logs and diagnostics.
func (k GroupKey) String() string {
	parts := []string{k.TrialDate, strconv.Itoa(k.TrialNumber), k.Element, k.Level}
	if k.Section != "" {
		parts = append(parts, k.Section)
	}
	return strings.Join(parts, "|")
}
