package services

import (
	"regexp"
	"strings"
)

var (
	reNonWord = regexp.MustCompile(`[^\p{L}\p{N}+#.]+`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// stopWords filters common English words that add noise to keyword matching.
var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "you": {},
	"are": {}, "have": {}, "will": {}, "this": {}, "that": {},
	"from": {}, "our": {}, "your": {}, "their": {}, "they": {},
	"work": {}, "team": {}, "role": {}, "job": {}, "join": {},
	"about": {}, "which": {}, "what": {}, "who": {}, "how": {},
	"can": {}, "not": {}, "but": {}, "all": {}, "also": {},
	"more": {}, "than": {}, "into": {}, "has": {}, "its": {},
	"was": {}, "were": {}, "been": {}, "each": {}, "new": {},
	"using": {}, "used": {}, "such": {}, "strong": {}, "plus": {},
}

// normalizeText lowercases, strips punctuation except tech suffixes
// (c++, c#, node.js) and collapses whitespace.
func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = reNonWord.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func normalizeSkill(skill string) string {
	return strings.TrimRight(normalizeText(skill), ".")
}

// skillVariants returns normalized alias variants for matching, so a profile
// listing "golang" still overlaps a job requiring "Go".
func skillVariants(skill string) []string {
	base := normalizeSkill(skill)
	if base == "" {
		return nil
	}

	variants := []string{base}
	switch base {
	case "postgres":
		variants = append(variants, "postgresql")
	case "postgresql":
		variants = append(variants, "postgres")
	case "k8s":
		variants = append(variants, "kubernetes")
	case "kubernetes":
		variants = append(variants, "k8s")
	case "golang":
		variants = append(variants, "go")
	case "go":
		variants = append(variants, "golang")
	case "js":
		variants = append(variants, "javascript")
	case "javascript":
		variants = append(variants, "js")
	case "ts":
		variants = append(variants, "typescript")
	case "typescript":
		variants = append(variants, "ts")
	case "ci cd", "cicd":
		variants = append(variants, "ci cd", "cicd")
	}
	return variants
}

// tokenize splits normalized text into keyword tokens, skipping stop words
// and tokens shorter than two runes.
func tokenize(text string) []string {
	var tokens []string
	for _, token := range strings.Fields(normalizeText(text)) {
		token = strings.TrimRight(token, ".")
		if len([]rune(token)) < 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range tokenize(text) {
		set[stem(token)] = struct{}{}
	}
	return set
}

// stem trims the most common English suffixes so "engineering" matches
// "engineer" and "databases" matches "database". It is deliberately crude;
// matching is case- and stem-insensitive, not linguistic.
func stem(word string) string {
	if len(word) <= 4 {
		return word
	}
	for _, suffix := range []string{"ing", "ies", "ed", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// containsTerm reports whether the term (possibly multi-word) occurs in the
// token set, comparing stems and skill aliases.
func containsTerm(tokens map[string]struct{}, term string) bool {
	for _, variant := range skillVariants(term) {
		found := true
		for _, word := range strings.Fields(variant) {
			if _, ok := tokens[stem(word)]; !ok {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
