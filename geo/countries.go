package geo

// defaultCountryTable builds the canonical-name/region lookup keyed by
// lower-cased country names and common aliases.
func defaultCountryTable() map[string]countryInfo {
	type entry struct {
		canonical string
		region    string
		aliases   []string
	}

	entries := []entry{
		{"united states", "north america", []string{"usa", "us", "u.s.", "u.s.a.", "america", "united states of america"}},
		{"canada", "north america", nil},
		{"mexico", "north america", nil},
		{"united kingdom", "europe", []string{"uk", "u.k.", "great britain", "britain", "england"}},
		{"germany", "europe", []string{"deutschland"}},
		{"france", "europe", nil},
		{"italy", "europe", nil},
		{"spain", "europe", nil},
		{"netherlands", "europe", []string{"holland"}},
		{"switzerland", "europe", nil},
		{"sweden", "europe", nil},
		{"norway", "europe", nil},
		{"finland", "europe", nil},
		{"denmark", "europe", nil},
		{"belgium", "europe", nil},
		{"austria", "europe", nil},
		{"poland", "europe", nil},
		{"czech republic", "europe", []string{"czechia"}},
		{"ukraine", "europe", nil},
		{"russia", "europe", []string{"russian federation"}},
		{"china", "asia", []string{"prc", "people's republic of china", "mainland china"}},
		{"japan", "asia", nil},
		{"south korea", "asia", []string{"korea", "republic of korea"}},
		{"north korea", "asia", []string{"dprk", "democratic people's republic of korea"}},
		{"india", "asia", nil},
		{"pakistan", "asia", nil},
		{"iran", "middle east", []string{"islamic republic of iran", "persia"}},
		{"iraq", "middle east", nil},
		{"israel", "middle east", nil},
		{"saudi arabia", "middle east", nil},
		{"united arab emirates", "middle east", []string{"uae"}},
		{"turkey", "middle east", []string{"turkiye"}},
		{"singapore", "asia", nil},
		{"taiwan", "asia", []string{"republic of china"}},
		{"hong kong", "asia", nil},
		{"vietnam", "asia", nil},
		{"thailand", "asia", nil},
		{"malaysia", "asia", nil},
		{"indonesia", "asia", nil},
		{"australia", "oceania", nil},
		{"new zealand", "oceania", nil},
		{"brazil", "south america", nil},
		{"argentina", "south america", nil},
		{"chile", "south america", nil},
		{"colombia", "south america", nil},
		{"venezuela", "south america", nil},
		{"south africa", "africa", nil},
		{"egypt", "africa", nil},
		{"nigeria", "africa", nil},
		{"kenya", "africa", nil},
	}

	table := make(map[string]countryInfo, len(entries)*2)
	for _, e := range entries {
		info := countryInfo{canonical: e.canonical, region: e.region}
		table[e.canonical] = info
		for _, alias := range e.aliases {
			table[alias] = info
		}
	}
	return table
}
