// Package normalize cleans up voice-transcribed survey notes before extraction.
//
// Every rule is idempotent: applying Normalize to already-normalized text
// returns it unchanged.
package normalize

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// rule is a single regex rewrite.
type rule struct {
	re   *regexp.Regexp
	repl string
}

// apply runs each rule in order. A replacement keeps the capitalised first
// letter of the words it replaces, so "Combie boiler" becomes "Combi boiler".
func apply(text string, rules []rule) string {
	for _, r := range rules {
		text = r.re.ReplaceAllStringFunc(text, func(match string) string {
			return keepInitialCase(match, r.re.ReplaceAllString(match, r.repl))
		})
	}
	return text
}

func keepInitialCase(match, repl string) string {
	m, _ := utf8.DecodeRuneInString(match)
	first, size := utf8.DecodeRuneInString(repl)
	if !unicode.IsUpper(m) || !unicode.IsLower(first) {
		return repl
	}
	return string(unicode.ToUpper(first)) + repl[size:]
}

// Pipe sizes. Spelled-out sizes are limited to the common copper sizes;
// anything else stays as spoken.
var pipeSizeRules = []rule{
	{regexp.MustCompile(`(?i)\bfifteen\s*(?:mm|millimet(?:er|re)s?)\b`), "15mm"},
	{regexp.MustCompile(`(?i)\btwenty[\s-]*two\s*(?:mm|millimet(?:er|re)s?)\b`), "22mm"},
	{regexp.MustCompile(`(?i)\btwenty[\s-]*eight\s*(?:mm|millimet(?:er|re)s?)\b`), "28mm"},
	{regexp.MustCompile(`(?i)\b(\d+)\s*(?:mm|millimet(?:er|re)s?)\b`), "${1}mm"},
}

// Known speech-to-text mistakes for heating vocabulary.
var transcriptionRules = []rule{
	{regexp.MustCompile(`(?i)\bmonkey\s+mock\b`), "monkey muck"},
	{regexp.MustCompile(`(?i)\bTRB(s?)\b`), "TRV${1}"},
	{regexp.MustCompile(`(?i)\btear[\s-]*away\s+valve(s?)\b`), "TRV${1}"},
	{regexp.MustCompile(`(?i)\bthermostatic\s+radiator\s+valve(s?)\b`), "TRV${1}"},
	{regexp.MustCompile(`(?i)\bmicro[\s-]+bore\b`), "microbore"},
	{regexp.MustCompile(`(?i)\bcombie\b`), "combi"},
	{regexp.MustCompile(`(?i)\bmag\s+filter(s?)\b`), "magnetic filter${1}"},
}

// Boiler type wording. Rocky only; Depot keeps the engineer's wording.
var boilerTypeRules = []rule{
	{regexp.MustCompile(`(?i)\bcombination\b`), "combi"},
	{regexp.MustCompile(`(?i)\b(?:conventional|heat[\s-]+only)\b`), "regular"},
}

// Normalize applies pipe-size canonicalization, transcription correction and
// boiler-type canonicalization, in that order.
func Normalize(text string) string {
	text = apply(text, pipeSizeRules)
	text = apply(text, transcriptionRules)
	return apply(text, boilerTypeRules)
}

// SanityCheck is the Depot variant of Normalize: pipe sizes and transcription
// fixes only.
func SanityCheck(text string) string {
	text = apply(text, pipeSizeRules)
	return apply(text, transcriptionRules)
}

// PipeSizes applies only the pipe-size rules.
func PipeSizes(text string) string {
	return apply(text, pipeSizeRules)
}
