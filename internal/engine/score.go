package engine

import (
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// MatchBasis names the field that connected two records.
type MatchBasis string

const (
	BasisEmail MatchBasis = "email"
	BasisName  MatchBasis = "name"
)

// scorer computes duplicate-confidence scores between normalized keys.
// An exact email signature match is absolute and scores 1.0 regardless of
// names; otherwise the score is normalized Levenshtein similarity between
// the canonical names, floored to 0 below the duplicate threshold.
type scorer struct {
	cfg Config
	lev *metrics.Levenshtein
}

func newScorer(cfg Config) *scorer {
	return &scorer{cfg: cfg, lev: metrics.NewLevenshtein()}
}

// threshold returns the cutoff applied to a pair. Short names use the strict
// threshold: "Person 1" vs "Person 10" sits above 0.85 but is not the same
// contact.
func (s *scorer) threshold(a, b Key) float64 {
	minLen := utf8.RuneCountInString(a.Name)
	if l := utf8.RuneCountInString(b.Name); l < minLen {
		minLen = l
	}
	if minLen < s.cfg.ShortNameLen {
		return s.cfg.StrictNameThreshold
	}
	return s.cfg.NameThreshold
}

// emailsMatch reports whether the two keys share an email signature. Records
// with a null email never match on email, including against each other.
func emailsMatch(a, b Key) bool {
	if len(a.Signatures) == 0 || len(b.Signatures) == 0 {
		return false
	}
	for _, sa := range a.Signatures {
		for _, sb := range b.Signatures {
			if sa == sb {
				return true
			}
		}
	}
	return false
}

// nameSimilarity is the raw fuzzy similarity between two canonical names on
// a 0-1 scale. Symmetric.
func (s *scorer) nameSimilarity(a, b Key) float64 {
	if a.Name == "" || b.Name == "" {
		return 0
	}
	if a.Name == b.Name {
		return 1
	}
	return strutil.Similarity(a.Name, b.Name, s.lev)
}

// Score returns the duplicate-confidence score for a pair together with the
// basis that produced it. Pairs with neither a shared email nor a
// sufficiently similar name score 0.
func (s *scorer) Score(a, b Key) (float64, MatchBasis) {
	if emailsMatch(a, b) {
		return 1, BasisEmail
	}
	if sim := s.nameSimilarity(a, b); sim >= s.threshold(a, b) {
		return sim, BasisName
	}
	return 0, ""
}
