package engine

import "strings"

// Key is the normalized, comparison-ready view of one record. Keys are
// derived per run, consumed by the scorer, and discarded after clustering.
type Key struct {
	// pos is the position within the usable-row slice, not the original
	// row index; the original index lives on the backing record.
	pos int

	Name       string
	NameTokens []string
	Signatures []Signature
	Company    string
}

// Signature is a canonicalized email in "local:domainbase" form. The domain
// base ignores TLD labels and mail subdomains so nacho@google.com and
// nacho@google.es compare equal, while nacho@microsoft.com does not.
type Signature string

// Common TLD labels and mail-routing subdomains dropped when reducing a
// domain to its base.
var (
	tldLabels = map[string]bool{
		"com": true, "es": true, "uk": true, "de": true, "fr": true,
		"it": true, "nl": true, "be": true, "org": true, "net": true,
		"io": true, "co": true, "ai": true, "app": true,
	}
	mailSubdomains = map[string]bool{
		"mail": true, "email": true, "smtp": true, "www": true,
	}
)

// NormalizeName canonicalizes a display name: trim, lower-case, strip
// punctuation that carries no identity (periods, commas), and collapse
// internal whitespace. Idempotent.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(".", " ", ",", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeEmail lower-cases and trims an address. Idempotent.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// NormalizeCompany trims and lower-cases a company value. Whitespace-only
// input normalizes to "", which means "unknown". Idempotent.
func NormalizeCompany(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// EmailSignature reduces an address to its matching signature. Returns false
// for addresses that cannot be parsed; a record without a parseable address
// has a null email and is excluded from email matching entirely.
func EmailSignature(addr string) (Signature, bool) {
	addr = NormalizeEmail(addr)
	at := strings.Index(addr, "@")
	if at <= 0 || at != strings.LastIndex(addr, "@") || at == len(addr)-1 {
		return "", false
	}

	local := addr[:at]
	domain := addr[at+1:]

	base := ""
	for _, label := range strings.Split(domain, ".") {
		if label == "" || tldLabels[label] || mailSubdomains[label] {
			continue
		}
		base = label
		break
	}
	if base == "" {
		// Every label was a TLD or subdomain; fall back to the first one.
		base = strings.Split(domain, ".")[0]
	}

	return Signature(local + ":" + base), true
}

// normalizeRecord derives the comparison key for one usable record.
func normalizeRecord(s Schema, r Record, pos int) Key {
	name := NormalizeName(s.Name(r))

	var sigs []Signature
	seen := make(map[Signature]bool)
	for _, addr := range s.Emails(r) {
		if sig, ok := EmailSignature(addr); ok && !seen[sig] {
			seen[sig] = true
			sigs = append(sigs, sig)
		}
	}

	var tokens []string
	if name != "" {
		tokens = strings.Fields(name)
	}

	return Key{
		pos:        pos,
		Name:       name,
		NameTokens: tokens,
		Signatures: sigs,
		Company:    NormalizeCompany(s.Company(r)),
	}
}

// usable reports whether a record carries at least one matching signal. Rows
// without one are malformed for deduplication purposes and get skipped with
// a warning.
func (k Key) usable() bool {
	return k.Name != "" || len(k.Signatures) > 0
}
