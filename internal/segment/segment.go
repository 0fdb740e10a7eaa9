// Package segment splits a creature stat-block document into individual
// ability strings so each can be converted on its own.
package segment

import (
	"regexp"
	"strings"
)

// Ability is one named ability sliced out of a document. Text keeps the full
// original segment, header included, so downstream extraction still sees
// recharge markers and other header metadata.
type Ability struct {
	Name    string
	Section string
	Text    string
}

var (
	// "Multiattack." / "**Bear Hug (Recharge 4-6).**" / "Keen Smell:"
	// the period sits either inside or outside the bold markers, so both
	// "**Name.**" and "**Name**." must match
	headerRe = regexp.MustCompile(`^(?:\*\*)?([A-Z][A-Za-z'’/ -]{0,46}?)(\s*\([^)]*\))?(?:\*\*)?[.:](?:\*\*)?\s+\S`)

	sectionRe = regexp.MustCompile(`(?i)^(?:\*\*|#+\s*)?(traits|actions|bonus actions|reactions|legendary actions|lair actions)\.?:?(?:\*\*)?\s*$`)

	trailingParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

const maxHeaderWords = 4

// Document splits a stat-block into abilities. Paragraphs that never match a
// header pattern fold into the preceding ability; leading unheadered prose
// (stat lines, fluff) is dropped.
func Document(text string) []Ability {
	var (
		out     []Ability
		current *Ability
		section string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(current.Text)
		if current.Text != "" {
			out = append(out, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := sectionRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			section = strings.ToLower(m[1])
			continue
		}

		if m := headerRe.FindStringSubmatch(trimmed); m != nil {
			name := strings.TrimSpace(trailingParenRe.ReplaceAllString(m[1], ""))
			// header names are short; a sentence that happens to end in a
			// period is not a header
			if len(strings.Fields(name)) <= maxHeaderWords {
				flush()
				current = &Ability{Name: name, Section: section, Text: stripBold(trimmed)}
				continue
			}
		}

		if current != nil {
			current.Text += "\n" + trimmed
		}
	}

	flush()
	return out
}

func stripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
