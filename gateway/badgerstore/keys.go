package badgerstore

// Key prefixes for the dataset indexes
const (
	entryPrefix   = "ent"
	aliasPrefix   = "ali"
	tokenPrefix   = "tok"
	versionKeyRaw = "meta:ver"
)

// makeEntryKey generates the primary key for an entry by normalized name.
func makeEntryKey(normalizedName string) []byte {
	return []byte(entryPrefix + ":" + normalizedName)
}

// makeAliasKey generates the alias index key pointing at a primary name.
func makeAliasKey(normalizedAlias string) []byte {
	return []byte(aliasPrefix + ":" + normalizedAlias)
}

// makeTokenKey generates a token index key. The primary name rides in the
// key suffix so a prefix scan recovers it without a value lookup.
func makeTokenKey(token, normalizedName string) []byte {
	return []byte(tokenPrefix + ":" + token + ":" + normalizedName)
}

// makeTokenScanPrefix generates the scan prefix for one token.
func makeTokenScanPrefix(token string) []byte {
	return []byte(tokenPrefix + ":" + token + ":")
}

// versionKey is the key holding the monotonic dataset version counter.
func versionKey() []byte {
	return []byte(versionKeyRaw)
}
