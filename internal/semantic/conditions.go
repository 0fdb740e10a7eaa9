package semantic

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/KirkDiggler/ability-forge/internal/domain/ability"
)

// Condition detection is a phrase-adjacency heuristic over the closed
// vocabulary, not a grammar. A condition word only counts when it follows a
// linking verb ("is", "becomes", "knocked", ...) within a few words, which
// filters out mentions like "immune to the poisoned condition".

var (
	linkingVerbRe = regexp.MustCompile(`(?i)\b(?:is|are|be|becomes?|being|falls?|knocked|remains?)\b`)

	saveEndsTimingRe = regexp.MustCompile(`(?i)repeat(?:s|ing)?\s+the\s+sav(?:e|ing\s+throw)[^.]*?at\s+the\s+(start|end)`)
	saveEndsRe       = regexp.MustCompile(`(?i)repeat(?:s|ing)?\s+the\s+sav(?:e|ing\s+throw)|save\s+ends`)

	wordRe = regexp.MustCompile(`[a-zA-Z]+`)
)

// adjacencyWindow is how many words after a linking verb may still be the
// condition word ("is magically restrained" has one filler word)
const adjacencyWindow = 3

// DetectConditions scans the fixed vocabulary against the text. Matching is
// tolerant to single-character misspellings for longer condition words.
// Save-ends metadata is set from "repeat the saving throw" phrasing;
// unrecognized timing wording defaults to end of turn (best effort).
func DetectConditions(text, trigger string) []ability.ConditionRef {
	found := detectKinds(text)
	if len(found) == 0 {
		return nil
	}

	saveEnds := saveEndsRe.MatchString(text)
	timing := ability.TimingEndOfTurn
	if m := saveEndsTimingRe.FindStringSubmatch(text); m != nil && strings.EqualFold(m[1], "start") {
		timing = ability.TimingStartOfTurn
	}

	out := make([]ability.ConditionRef, 0, len(found))
	for _, entry := range found {
		ref := ability.ConditionRef{
			Kind:    entry.Kind,
			Display: entry.Display,
			Trigger: trigger,
		}
		if saveEnds {
			ref.SaveEnds = true
			ref.SaveEndsTiming = timing
		}
		out = append(out, ref)
	}
	return out
}

// detectKinds returns vocabulary entries confirmed by adjacency, in text
// order, de-duplicated
func detectKinds(text string) []ability.VocabEntry {
	words := wordRe.FindAllStringIndex(text, -1)
	lower := strings.ToLower(text)

	verbAt := make([]bool, len(words))
	for i, span := range words {
		word := lower[span[0]:span[1]]
		if linkingVerbRe.MatchString(word) {
			verbAt[i] = true
		}
	}

	vocab := ability.Vocabulary()

	var out []ability.VocabEntry
	seen := make(map[ability.ConditionKind]bool)

	for i, span := range words {
		word := lower[span[0]:span[1]]

		entry, ok := matchVocabulary(vocab, word)
		if !ok || seen[entry.Kind] {
			continue
		}

		// confirm a linking verb within the preceding window
		confirmed := false
		for back := 1; back <= adjacencyWindow && i-back >= 0; back++ {
			if verbAt[i-back] {
				confirmed = true
				break
			}
		}
		if !confirmed {
			continue
		}

		seen[entry.Kind] = true
		out = append(out, entry)
	}
	return out
}

// matchVocabulary compares a word against every vocabulary term. Words of
// six letters or more tolerate an edit distance of one; shorter words must
// match exactly, since single-character slack on short words produces too
// many false hits.
func matchVocabulary(vocab []ability.VocabEntry, word string) (ability.VocabEntry, bool) {
	for _, entry := range vocab {
		term := string(entry.Kind)
		if word == term {
			return entry, true
		}
		if len(term) >= 6 && abs(len(word)-len(term)) <= 1 &&
			levenshtein.ComputeDistance(word, term) <= 1 {
			return entry, true
		}
	}
	return ability.VocabEntry{}, false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
