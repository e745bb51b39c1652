package text

// Vocabulary holds the lookup tables driving normalization heuristics.
// The zero value is unusable; use DefaultVocabulary or supply custom tables.
type Vocabulary struct {
	// OrgPrefixes are leading organizational phrases removed during
	// normalization, matched as whole words.
	OrgPrefixes []string

	// OrgSuffixes are corporate-form words removed during normalization.
	OrgSuffixes map[string]bool

	// CoreSuffixes is a superset of OrgSuffixes removed by CoreText for
	// maximally aggressive canonicalization.
	CoreSuffixes map[string]bool

	// StopWords are filtered from word-overlap and keyword extraction.
	StopWords map[string]bool

	// GenericTerms are boilerplate words (country names, corporate forms,
	// academic-institution words) that carry no distinguishing content.
	GenericTerms map[string]bool

	// AcademicTerms flag publication-like entities by substring match.
	AcademicTerms []string

	// CompoundPhrases are "and"-phrases never split during multi-entity
	// parsing.
	CompoundPhrases []string
}

// Stop words to filter out when computing word overlap and keywords
var defaultStopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

var defaultOrgPrefixes = []string{
	"university of",
	"institute of",
	"academy of",
	"college of",
	"school of",
	"department of",
	"ministry of",
	"bank of",
	"the",
}

var defaultOrgSuffixes = map[string]bool{
	"inc": true, "incorporated": true, "ltd": true, "limited": true,
	"llc": true, "llp": true, "corp": true, "corporation": true,
	"co": true, "company": true, "gmbh": true, "plc": true, "sa": true,
	"ag": true, "bv": true, "pty": true, "group": true, "holdings": true,
}

var defaultCoreSuffixes = map[string]bool{
	"university": true, "institute": true, "institutes": true,
	"laboratory": true, "laboratories": true, "lab": true, "labs": true,
	"academy": true, "college": true, "school": true,
	"center": true, "centre": true, "foundation": true,
	"association": true, "society": true, "organization": true,
	"organisation": true, "agency": true, "bureau": true,
	"technology": true, "technologies": true, "systems": true,
	"sciences": true, "science": true, "research": true,
	"international": true, "national": true, "industries": true,
	"enterprises": true, "solutions": true, "services": true,
}

var defaultGenericTerms = map[string]bool{
	// geography
	"china": true, "chinese": true, "usa": true, "america": true,
	"american": true, "europe": true, "european": true, "asia": true,
	"asian": true, "africa": true, "african": true, "russia": true,
	"russian": true, "india": true, "iran": true, "korea": true,
	"japan": true, "germany": true, "france": true, "uk": true,
	"international": true, "global": true, "national": true,
	"state": true, "federal": true, "central": true, "government": true,
	// corporate forms
	"inc": true, "ltd": true, "llc": true, "corp": true,
	"corporation": true, "company": true, "group": true,
	"holdings": true, "limited": true, "enterprise": true,
	"enterprises": true, "industries": true, "industrial": true,
	// academic boilerplate
	"university": true, "institute": true, "college": true,
	"academy": true, "school": true, "research": true,
	"science": true, "sciences": true, "technology": true,
	"engineering": true, "general": true,
}

var defaultAcademicTerms = []string{
	"journal", "conference", "proceedings", "symposium", "workshop",
	"review", "letters", "bulletin", "transactions", "annals",
	"quarterly", "press",
}

var defaultCompoundPhrases = []string{
	"research and development",
	"oil and gas",
	"aerospace and defense",
	"science and technology",
	"engineering and construction",
	"arts and sciences",
	"food and beverage",
	"health and human services",
}

// DefaultVocabulary returns the built-in lookup tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		OrgPrefixes:     defaultOrgPrefixes,
		OrgSuffixes:     defaultOrgSuffixes,
		CoreSuffixes:    defaultCoreSuffixes,
		StopWords:       defaultStopWords,
		GenericTerms:    defaultGenericTerms,
		AcademicTerms:   defaultAcademicTerms,
		CompoundPhrases: defaultCompoundPhrases,
	}
}
