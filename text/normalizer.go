package text

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	punctuationRe   = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	corpSuffixRe    = regexp.MustCompile(`(?i)[,\s]+(inc|incorporated|ltd|limited|llc|llp|corp|corporation|co|gmbh|plc|sa|ag)\.?\s*$`)
	numberedListRe  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	numberedSplitRe = regexp.MustCompile(`\s*\d+\.\s+`)
	entitySplitRe   = regexp.MustCompile(`[,;\n]+`)
	andSplitRe      = regexp.MustCompile(`\s+and\s+`)
	numericOnlyRe   = regexp.MustCompile(`^\d+$`)
)

// discarded entries when parsing multi-entity strings
var parseDiscards = map[string]bool{
	"none":              true,
	"no evidence found": true,
	"n/a":               true,
}

// Normalizer canonicalizes organization names using a Vocabulary of
// data-driven lookup tables.
type Normalizer struct {
	vocab *Vocabulary
}

// NewNormalizer creates a Normalizer. A nil vocabulary falls back to
// DefaultVocabulary.
func NewNormalizer(vocab *Vocabulary) *Normalizer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Normalizer{vocab: vocab}
}

// Normalize lowercases the text, strips parenthetical groups, removes
// organizational prefixes and corporate-form suffixes as whole words,
// converts punctuation to whitespace, and collapses whitespace.
func (n *Normalizer) Normalize(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = parentheticalRe.ReplaceAllString(s, " ")

	for _, prefix := range n.vocab.OrgPrefixes {
		if strings.HasPrefix(s, prefix+" ") {
			s = s[len(prefix)+1:]
			break
		}
	}

	s = punctuationRe.ReplaceAllString(s, " ")

	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if n.vocab.OrgSuffixes[word] {
			continue
		}
		kept = append(kept, word)
	}
	// Dropping every word loses the name entirely; keep the suffix-only
	// form rather than returning nothing.
	if len(kept) == 0 {
		kept = words
	}

	return strings.Join(kept, " ")
}

// CoreText applies Normalize and then removes the broader organizational
// suffix vocabulary, producing the most aggressive canonical form.
func (n *Normalizer) CoreText(text string) string {
	normalized := n.Normalize(text)

	words := strings.Fields(normalized)
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if n.vocab.CoreSuffixes[word] {
			continue
		}
		kept = append(kept, word)
	}
	if len(kept) == 0 {
		return normalized
	}
	return strings.Join(kept, " ")
}

// SpecificityScore estimates how distinctive a name is, in [0,1].
// Generic boilerplate (country names, corporate forms, academic words)
// drags the score down; length, digits, and punctuation raise it.
func (n *Normalizer) SpecificityScore(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0.0
	}

	score := float64(len(words)) * 0.2
	if score > 1.0 {
		score = 1.0
	}

	generic := 0
	for _, word := range words {
		cleaned := strings.Trim(word, ".,()-")
		if n.vocab.GenericTerms[cleaned] {
			generic++
		}
	}
	score -= 0.7 * float64(generic) / float64(len(words))

	lengthBonus := float64(len(text)) / 50.0
	if lengthBonus > 0.3 {
		lengthBonus = 0.3
	}
	score += lengthBonus

	if strings.ContainsAny(text, "0123456789.-") {
		score += 0.1
	}

	if len(n.Normalize(text)) < 5 {
		score *= 0.5
	}

	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}

// Variations generates the ordered set of search variations for a name:
// the original, the normalized form, the core text, an acronym built from
// token initials (2-6 tokens, both cased forms), and the name with a
// trailing corporate suffix stripped. Insertion order is preserved and
// duplicates are dropped.
func (n *Normalizer) Variations(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	seen := make(map[string]bool)
	variations := make([]string, 0, 6)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variations = append(variations, v)
	}

	add(text)
	normalized := n.Normalize(text)
	add(normalized)
	if core := n.CoreText(text); core != normalized {
		add(core)
	}

	if acronym := buildAcronym(text); len(acronym) > 1 {
		add(strings.ToUpper(acronym))
		add(strings.ToLower(acronym))
	}

	if stripped := corpSuffixRe.ReplaceAllString(text, ""); stripped != text {
		add(stripped)
	}

	return variations
}

// buildAcronym forms an acronym from the initials of 2-6 whitespace tokens.
// Returns an empty string when the token count is out of range.
func buildAcronym(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) < 2 || len(tokens) > 6 {
		return ""
	}

	var b strings.Builder
	for _, token := range tokens {
		for _, r := range token {
			if unicode.IsLetter(r) {
				b.WriteRune(r)
			}
			break
		}
	}
	return b.String()
}

// ShouldSkip reports whether text is too vague to search: empty input, a
// normalized form shorter than 2 characters, or nothing but generic terms.
func (n *Normalizer) ShouldSkip(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}

	normalized := n.Normalize(text)
	if len(normalized) < 2 {
		return true
	}

	words := strings.Fields(strings.ToLower(text))
	for _, word := range words {
		cleaned := strings.Trim(word, ".,()-")
		if cleaned == "" {
			continue
		}
		if !n.vocab.GenericTerms[cleaned] {
			return false
		}
	}
	return true
}

// ParseEntities splits a free-text string into individual entity names.
// Numbered lists split on the list markers; otherwise the text splits on
// commas, semicolons, and newlines, then on the word "and" except inside
// whitelisted compound phrases. Empty, purely numeric, single-character,
// and "none"-style entries are dropped, and duplicates are removed
// case-insensitively keeping the first occurrence.
func (n *Normalizer) ParseEntities(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	if numberedListRe.MatchString(text) {
		parts = numberedSplitRe.Split(text, -1)
	} else {
		for _, part := range entitySplitRe.Split(text, -1) {
			parts = append(parts, n.splitOnAnd(part)...)
		}
	}

	seen := make(map[string]bool)
	entities := make([]string, 0, len(parts))
	for _, part := range parts {
		entity := strings.Trim(strings.TrimSpace(part), `"'`)
		if len(entity) <= 1 {
			continue
		}
		if numericOnlyRe.MatchString(entity) {
			continue
		}
		lower := strings.ToLower(entity)
		if parseDiscards[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		entities = append(entities, entity)
	}
	return entities
}

// splitOnAnd splits a fragment on the word "and" unless the fragment
// contains a whitelisted compound phrase.
func (n *Normalizer) splitOnAnd(part string) []string {
	lower := strings.ToLower(part)
	for _, phrase := range n.vocab.CompoundPhrases {
		if strings.Contains(lower, phrase) {
			return []string{part}
		}
	}
	return andSplitRe.Split(part, -1)
}

// WordOverlap returns the Jaccard similarity over tokens longer than 2
// characters with stop words removed.
func (n *Normalizer) WordOverlap(a, b string) float64 {
	tokensA := n.overlapTokens(a)
	tokensB := n.overlapTokens(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokensA {
		if tokensB[token] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection

	return float64(intersection) / float64(union)
}

func (n *Normalizer) overlapTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		cleaned := strings.Trim(word, ".,!?;:'\"-()[]{}")
		if len(cleaned) <= 2 || n.vocab.StopWords[cleaned] {
			continue
		}
		tokens[cleaned] = true
	}
	return tokens
}

// IsAcademicTerm reports whether the text looks like a publication or
// venue rather than an organization.
func (n *Normalizer) IsAcademicTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range n.vocab.AcademicTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// ExtractKeywords returns the normalized tokens of at least minLength
// characters with stop and generic words removed, deduplicated, and
// sorted longest-first.
func (n *Normalizer) ExtractKeywords(text string, minLength int) []string {
	if minLength < 1 {
		minLength = 3
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, word := range strings.Fields(n.Normalize(text)) {
		if len(word) < minLength || n.vocab.StopWords[word] || n.vocab.GenericTerms[word] {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return len(keywords[i]) > len(keywords[j])
	})
	return keywords
}
