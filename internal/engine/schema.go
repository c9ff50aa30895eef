package engine

import "strings"

// Schema locates the identity-bearing columns in a header. Contact exports
// name their columns inconsistently, so detection works off a set of accepted
// aliases; a first/last name pair substitutes for a missing full-name column,
// and a record may carry several email columns. Detection happens once at
// ingestion, not per access.
type Schema struct {
	NameColumn    string
	FirstColumn   string
	LastColumn    string
	EmailColumns  []string
	CompanyColumn string
}

var nameAliases = map[string]bool{
	"name":         true,
	"full_name":    true,
	"fullname":     true,
	"contact_name": true,
	"person_name":  true,
}

var companyAliases = map[string]bool{
	"company":      true,
	"company_name": true,
	"organization": true,
	"org":          true,
	"employer":     true,
}

// DetectSchema inspects the declared columns and returns the identity column
// mapping. A missing company column is legal and treated as all-empty.
func DetectSchema(columns []string) Schema {
	var s Schema
	for _, col := range columns {
		lower := strings.ToLower(col)
		switch {
		case nameAliases[lower] && s.NameColumn == "":
			s.NameColumn = col
		case strings.Contains(lower, "email"):
			s.EmailColumns = append(s.EmailColumns, col)
		case companyAliases[lower] && s.CompanyColumn == "":
			s.CompanyColumn = col
		case strings.Contains(lower, "first") && strings.Contains(lower, "name") && s.FirstColumn == "":
			s.FirstColumn = col
		case strings.Contains(lower, "last") && strings.Contains(lower, "name") && s.LastColumn == "":
			s.LastColumn = col
		}
	}
	return s
}

// HasIdentity reports whether the schema exposes at least one column usable
// for matching.
func (s Schema) HasIdentity() bool {
	return s.NameColumn != "" || s.FirstColumn != "" || s.LastColumn != "" || len(s.EmailColumns) > 0
}

// Name extracts the raw display name for a record, combining first and last
// name columns when no single name column exists.
func (s Schema) Name(r Record) string {
	if s.NameColumn != "" {
		return r.Get(s.NameColumn)
	}
	first := strings.TrimSpace(r.Get(s.FirstColumn))
	last := strings.TrimSpace(r.Get(s.LastColumn))
	return strings.TrimSpace(first + " " + last)
}

// Emails extracts every raw email value present on a record. Cells holding
// several comma-separated addresses are split.
func (s Schema) Emails(r Record) []string {
	var emails []string
	for _, col := range s.EmailColumns {
		for _, part := range strings.Split(r.Get(col), ",") {
			part = strings.TrimSpace(part)
			if part != "" && strings.Contains(part, "@") {
				emails = append(emails, part)
			}
		}
	}
	return emails
}

// PrimaryEmailColumn returns the column merged email sets are written back
// to, or "" when the input has no email column.
func (s Schema) PrimaryEmailColumn() string {
	if len(s.EmailColumns) == 0 {
		return ""
	}
	return s.EmailColumns[0]
}

// Company extracts the raw company value, or "" when the column is absent.
func (s Schema) Company(r Record) string {
	if s.CompanyColumn == "" {
		return ""
	}
	return r.Get(s.CompanyColumn)
}
