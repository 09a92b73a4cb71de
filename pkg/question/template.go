// Package question synthesizes the natural-language question the
// assistant may use to ask about a not-yet-identified person. Output is a
// pure function of the stored hypotheses and snippets: the same record
// state always produces the same question.
package question

import "fmt"

// Generator turns a candidate's stored state into a question string.
// Injected so callers can swap in an LLM-backed generator without touching
// selection policy.
type Generator func(label string, relationships []string, snippets []string) string

// Template is the default deterministic generator.
func Template(label string, relationships []string, snippets []string) string {
	if len(relationships) > 0 {
		return fmt.Sprintf("You've mentioned %s a few times. Are they your %s?", label, relationships[0])
	}
	if len(snippets) > 0 {
		return fmt.Sprintf("You mentioned %s when you said %q. Who are they to you?", label, latest(snippets))
	}
	return fmt.Sprintf("You've brought up %s before. Who are they, so I can remember them properly?", label)
}

// latest returns the most recent snippet; the stored list is append-only
// with the oldest dropped on overflow, so that is the last element.
func latest(snippets []string) string {
	return snippets[len(snippets)-1]
}
