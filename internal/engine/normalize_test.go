package engine

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  John   Smith ", "john smith"},
		{"SMITH, John", "smith john"},
		{"Dr. Jane Q. Doe", "dr jane q doe"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizationIdempotent(t *testing.T) {
	inputs := []string{"  John   Smith ", "ACME, Inc.", "Nacho@Google.COM ", "person 1"}
	for _, in := range inputs {
		if once, twice := NormalizeName(in), NormalizeName(NormalizeName(in)); once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q vs %q", in, once, twice)
		}
		if once, twice := NormalizeEmail(in), NormalizeEmail(NormalizeEmail(in)); once != twice {
			t.Errorf("NormalizeEmail not idempotent for %q: %q vs %q", in, once, twice)
		}
		if once, twice := NormalizeCompany(in), NormalizeCompany(NormalizeCompany(in)); once != twice {
			t.Errorf("NormalizeCompany not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestEmailSignature(t *testing.T) {
	cases := []struct {
		in   string
		want Signature
		ok   bool
	}{
		{"nacho@google.com", "nacho:google", true},
		{"Nacho@Google.ES", "nacho:google", true},
		{"nacho@mail.google.co.uk", "nacho:google", true},
		{"nacho@microsoft.com", "nacho:microsoft", true},
		{"someone@com", "someone:com", true}, // all labels look like TLDs; keep the first
		{"no-at-sign", "", false},
		{"@example.com", "", false},
		{"trailing@", "", false},
		{"two@@ats.com", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := EmailSignature(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("EmailSignature(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDetectSchema(t *testing.T) {
	t.Run("single name column and aliases", func(t *testing.T) {
		s := DetectSchema([]string{"Full_Name", "Work Email", "Organization"})
		if s.NameColumn != "Full_Name" {
			t.Fatalf("name column = %q", s.NameColumn)
		}
		if len(s.EmailColumns) != 1 || s.EmailColumns[0] != "Work Email" {
			t.Fatalf("email columns = %v", s.EmailColumns)
		}
		if s.CompanyColumn != "Organization" {
			t.Fatalf("company column = %q", s.CompanyColumn)
		}
	})

	t.Run("first and last name pair", func(t *testing.T) {
		s := DetectSchema([]string{"First Name", "Last Name", "email"})
		r := Record{Values: map[string]string{"First Name": "Jane", "Last Name": "Doe"}}
		if got := s.Name(r); got != "Jane Doe" {
			t.Fatalf("combined name = %q", got)
		}
	})

	t.Run("missing company column is legal", func(t *testing.T) {
		s := DetectSchema([]string{"name", "email"})
		if s.CompanyColumn != "" {
			t.Fatalf("expected no company column, got %q", s.CompanyColumn)
		}
		if s.Company(Record{Values: map[string]string{"name": "x"}}) != "" {
			t.Fatalf("expected empty company for missing column")
		}
		if !s.HasIdentity() {
			t.Fatalf("expected identity columns to be detected")
		}
	})
}

func TestNormalizeRecordMultipleEmails(t *testing.T) {
	s := DetectSchema([]string{"name", "email", "secondary_email"})
	r := Record{Values: map[string]string{
		"name":            "Jane Doe",
		"email":           "jane@acme.com, jane.doe@acme.es",
		"secondary_email": "JANE@ACME.COM",
	}}
	key := normalizeRecord(s, r, 0)

	// jane@acme.com and JANE@ACME.COM collapse to one signature.
	if len(key.Signatures) != 2 {
		t.Fatalf("expected 2 distinct signatures, got %v", key.Signatures)
	}
}
