package engine

import (
	"fmt"
	"sort"
	"strings"

	platformstrings "dedupe/pkg/platform/strings"
)

// Decision is the closed set of outcomes for one cluster.
type Decision interface {
	isDecision()
}

// AutoMerge collapses a cluster into one survivor. Removed lists the usable
// positions of the other members, which land in the to-delete output.
type AutoMerge struct {
	Survivor    Record
	SurvivorPos int
	Removed     []int
	Reason      string
}

// Flagged keeps a cluster intact for manual review because member companies
// conflict. Nothing is deleted.
type Flagged struct {
	Members   []int
	Companies []string
	Reason    string
}

// Singleton passes a lone record through unchanged.
type Singleton struct {
	Pos int
}

func (AutoMerge) isDecision() {}
func (Flagged) isDecision()   {}
func (Singleton) isDecision() {}

// Field weights for completeness scoring. Identity-bearing fields count more
// than free text when choosing which cluster member survives a merge.
var completenessWeights = []struct {
	substrings []string
	weight     int
}{
	{[]string{"email"}, 10},
	{[]string{"phone", "mobile"}, 5},
	{[]string{"company", "organization"}, 5},
	{[]string{"title", "job", "position"}, 3},
	{[]string{"linkedin"}, 2},
	{[]string{"address", "location"}, 2},
}

// completeness scores a record by how much usable data it carries. Higher
// wins survivor selection; ties fall back to the lowest original row index.
func completeness(r Record, columns []string) int {
	score := 0
	for _, col := range columns {
		if strings.TrimSpace(r.Get(col)) == "" {
			continue
		}
		lower := strings.ToLower(col)
		weight := 1
		for _, w := range completenessWeights {
			for _, sub := range w.substrings {
				if strings.Contains(lower, sub) {
					weight = w.weight
				}
			}
		}
		score += weight
	}
	return score
}

// decide applies the merge policy to one cluster. Clusters whose members
// disagree on a non-empty company are flagged; everything else merges into
// the most complete member.
func decide(c cluster, records []Record, keys []Key, schema Schema, columns []string) Decision {
	if len(c.members) == 1 {
		return Singleton{Pos: c.members[0]}
	}

	companies := distinctCompanies(c, keys)
	if len(companies) >= 2 {
		return Flagged{
			Members:   append([]int(nil), c.members...),
			Companies: companies,
			Reason:    fmt.Sprintf("different companies: %s", strings.Join(companies, " vs ")),
		}
	}

	// Order members by completeness, most complete first; ties keep input
	// order so the result is stable.
	ordered := append([]int(nil), c.members...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ci := completeness(records[ordered[i]], columns)
		cj := completeness(records[ordered[j]], columns)
		if ci != cj {
			return ci > cj
		}
		return records[ordered[i]].Index < records[ordered[j]].Index
	})

	survivorPos := ordered[0]
	survivor := buildSurvivor(ordered, records, schema, columns)

	removed := make([]int, 0, len(ordered)-1)
	for _, pos := range ordered[1:] {
		removed = append(removed, pos)
	}
	sort.Ints(removed)

	reason := "same company"
	if len(companies) == 0 {
		reason = "no company on any member"
	}

	return AutoMerge{
		Survivor:    survivor,
		SurvivorPos: survivorPos,
		Removed:     removed,
		Reason:      reason,
	}
}

// distinctCompanies returns the sorted set of distinct non-empty normalized
// company values across cluster members.
func distinctCompanies(c cluster, keys []Key) []string {
	set := make(map[string]bool)
	for _, pos := range c.members {
		if company := keys[pos].Company; company != "" {
			set[company] = true
		}
	}
	out := make([]string, 0, len(set))
	for company := range set {
		out = append(out, company)
	}
	sort.Strings(out)
	return out
}

// buildSurvivor derives the merged record. The most complete member is the
// primary source; empty fields backfill from the remaining members in
// completeness order. Email columns get the union of every address seen in
// the cluster so no address is lost in the merge.
func buildSurvivor(ordered []int, records []Record, schema Schema, columns []string) Record {
	primary := records[ordered[0]]
	merged := primary.clone()

	for _, col := range columns {
		if strings.TrimSpace(merged.Values[col]) != "" {
			continue
		}
		for _, pos := range ordered[1:] {
			if v := records[pos].Get(col); strings.TrimSpace(v) != "" {
				merged.Values[col] = v
				break
			}
		}
	}

	if col := schema.PrimaryEmailColumn(); col != "" {
		var all []string
		for _, pos := range ordered {
			all = append(all, schema.Emails(records[pos])...)
		}
		if emails := platformstrings.DedupeAndTrimLower(all); len(emails) > 0 {
			sort.Strings(emails)
			merged.Values[col] = strings.Join(emails, ", ")
		}
	}

	return merged
}
