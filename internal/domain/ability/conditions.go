package ability

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConditionKind identifies a condition in the closed vocabulary
type ConditionKind string

// Standard conditions
const (
	CondBlinded       ConditionKind = "blinded"
	CondCharmed       ConditionKind = "charmed"
	CondDeafened      ConditionKind = "deafened"
	CondFrightened    ConditionKind = "frightened"
	CondGrappled      ConditionKind = "grappled"
	CondIncapacitated ConditionKind = "incapacitated"
	CondInvisible     ConditionKind = "invisible"
	CondParalyzed     ConditionKind = "paralyzed"
	CondPetrified     ConditionKind = "petrified"
	CondPoisoned      ConditionKind = "poisoned"
	CondProne         ConditionKind = "prone"
	CondRestrained    ConditionKind = "restrained"
	CondStunned       ConditionKind = "stunned"
	CondUnconscious   ConditionKind = "unconscious"
)

// ConditionRef records a condition application detected in ability text.
//
// Detection is a closed-vocabulary phrase-adjacency heuristic, not a grammar.
// Ambiguous turn-timing wording is matched best-effort and may mis-tag; when
// the timing phrasing is unrecognized, SaveEndsTiming defaults to end of turn.
type ConditionRef struct {
	Kind           ConditionKind
	Display        string
	Trigger        string // "failed_save", "hit", or "" when unknown
	SaveEnds       bool
	SaveEndsTiming TurnTiming
}

// VocabEntry is one recognized condition in the vocabulary
type VocabEntry struct {
	Kind     ConditionKind
	Display  string
	Statuses []string // Status tags the condition applies on the target
	Homebrew bool
}

var standardVocabulary = []VocabEntry{
	{Kind: CondBlinded, Display: "Blinded", Statuses: []string{"blinded"}},
	{Kind: CondCharmed, Display: "Charmed", Statuses: []string{"charmed"}},
	{Kind: CondDeafened, Display: "Deafened", Statuses: []string{"deafened"}},
	{Kind: CondFrightened, Display: "Frightened", Statuses: []string{"frightened"}},
	{Kind: CondGrappled, Display: "Grappled", Statuses: []string{"grappled"}},
	{Kind: CondIncapacitated, Display: "Incapacitated", Statuses: []string{"incapacitated"}},
	{Kind: CondInvisible, Display: "Invisible", Statuses: []string{"invisible"}},
	{Kind: CondParalyzed, Display: "Paralyzed", Statuses: []string{"paralyzed", "incapacitated"}},
	{Kind: CondPetrified, Display: "Petrified", Statuses: []string{"petrified", "incapacitated"}},
	{Kind: CondPoisoned, Display: "Poisoned", Statuses: []string{"poisoned"}},
	{Kind: CondProne, Display: "Prone", Statuses: []string{"prone"}},
	{Kind: CondRestrained, Display: "Restrained", Statuses: []string{"restrained"}},
	{Kind: CondStunned, Display: "Stunned", Statuses: []string{"stunned", "incapacitated"}},
	{Kind: CondUnconscious, Display: "Unconscious", Statuses: []string{"unconscious", "incapacitated"}},
}

//go:embed vocabulary.yaml
var homebrewVocabularyYAML []byte

type vocabularyFile struct {
	Conditions []struct {
		Kind     string   `yaml:"kind"`
		Display  string   `yaml:"display"`
		Statuses []string `yaml:"statuses"`
	} `yaml:"conditions"`
}

var vocabulary []VocabEntry

func init() {
	var err error
	vocabulary, err = buildVocabulary(homebrewVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("ability: invalid embedded condition vocabulary: %v", err))
	}
}

func buildVocabulary(homebrew []byte) ([]VocabEntry, error) {
	entries := make([]VocabEntry, 0, len(standardVocabulary)+8)
	entries = append(entries, standardVocabulary...)

	var file vocabularyFile
	if err := yaml.Unmarshal(homebrew, &file); err != nil {
		return nil, err
	}

	seen := make(map[ConditionKind]bool, len(entries))
	for _, e := range entries {
		seen[e.Kind] = true
	}

	for _, c := range file.Conditions {
		kind := ConditionKind(strings.ToLower(strings.TrimSpace(c.Kind)))
		if kind == "" {
			return nil, fmt.Errorf("homebrew condition with empty kind")
		}
		if seen[kind] {
			return nil, fmt.Errorf("duplicate condition kind %q", kind)
		}
		seen[kind] = true

		display := c.Display
		if display == "" {
			display = strings.ToUpper(string(kind[0])) + string(kind[1:])
		}
		statuses := c.Statuses
		if len(statuses) == 0 {
			statuses = []string{string(kind)}
		}

		entries = append(entries, VocabEntry{
			Kind:     kind,
			Display:  display,
			Statuses: statuses,
			Homebrew: true,
		})
	}

	return entries, nil
}

// Vocabulary returns the full condition vocabulary (standard plus homebrew)
func Vocabulary() []VocabEntry {
	out := make([]VocabEntry, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// LookupCondition finds a vocabulary entry by kind
func LookupCondition(kind ConditionKind) (VocabEntry, bool) {
	for _, e := range vocabulary {
		if e.Kind == kind {
			return e, true
		}
	}
	return VocabEntry{}, false
}
