package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dedupe/internal/billing"
	"dedupe/internal/engine"
	"dedupe/internal/run/store"
	dErrors "dedupe/pkg/domain-errors"
	"dedupe/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	svc   *Service
	store *store.InMemoryStore
	now   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = store.NewInMemoryStore()

	eng, err := engine.New(engine.DefaultConfig())
	s.Require().NoError(err)

	pricing := billing.Pricing{FreeTierLimit: 3, PricePerRowCents: 2}

	s.svc, err = New(s.store, eng, pricing, 24*time.Hour)
	s.Require().NoError(err)
}

func (s *ServiceSuite) ctx() context.Context {
	return requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) TestNewValidation() {
	eng, err := engine.New(engine.DefaultConfig())
	s.Require().NoError(err)

	_, err = New(nil, eng, billing.Pricing{}, time.Hour)
	s.Error(err)

	_, err = New(s.store, nil, billing.Pricing{}, time.Hour)
	s.Error(err)

	_, err = New(s.store, eng, billing.Pricing{}, 0)
	s.Error(err)
}

func (s *ServiceSuite) TestAnalyzeFreeTier() {
	csv := "name,email\n" +
		"Jane Doe,jane@acme.com\n" +
		"Jane Doe,jane@acme.es\n" +
		"Bob Stone,bob@other.com\n"

	run, err := s.svc.Analyze(s.ctx(), "contacts.csv", strings.NewReader(csv))
	s.Require().NoError(err)

	s.Equal("contacts.csv", run.Filename)
	s.Equal(s.now, run.CreatedAt)
	s.Equal(s.now.Add(24*time.Hour), run.ExpiresAt)
	s.Equal(3, run.Summary.TotalRows)
	s.Equal(1, run.Summary.MergedCount)
	s.True(run.FreeTier)
	s.True(run.Paid, "free tier runs unlock downloads immediately")
	s.Zero(run.PriceCents)

	s.NotEmpty(run.Outputs.MasterCSV)
	s.Contains(run.Outputs.MasterCSV, "jane@acme.com, jane@acme.es")
	s.Contains(run.Outputs.ToDeleteCSV, "_merged_into")

	stored, err := s.store.Find(s.ctx(), run.ID)
	s.Require().NoError(err)
	s.Equal(run.ID, stored.ID)
}

func (s *ServiceSuite) TestAnalyzePaidTier() {
	var b strings.Builder
	b.WriteString("name,email\n")
	rows := []string{
		"Ann One,ann@one.com",
		"Ben Two,ben@two.com",
		"Cal Three,cal@three.com",
		"Dee Four,dee@four.com",
	}
	for _, r := range rows {
		b.WriteString(r + "\n")
	}

	run, err := s.svc.Analyze(s.ctx(), "big.csv", strings.NewReader(b.String()))
	s.Require().NoError(err)

	s.False(run.FreeTier)
	s.False(run.Paid)
	s.Equal(len(rows)*2, run.PriceCents)
	s.False(run.Downloadable())
}

func (s *ServiceSuite) TestAnalyzeEmptyUpload() {
	_, err := s.svc.Analyze(s.ctx(), "empty.csv", strings.NewReader(""))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeEmptyInput))
}

func (s *ServiceSuite) TestAnalyzeNoUsableRows() {
	// Rows without a name or email are skipped; the whole upload becomes
	// an empty-input error rather than an empty result.
	csv := "name,email\n,\n,\n"
	_, err := s.svc.Analyze(s.ctx(), "blank.csv", strings.NewReader(csv))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeEmptyInput))
}

func (s *ServiceSuite) TestMarkPaid() {
	csv := "name,email\n" +
		"Ann One,ann@one.com\n" +
		"Ben Two,ben@two.com\n" +
		"Cal Three,cal@three.com\n" +
		"Dee Four,dee@four.com\n"

	run, err := s.svc.Analyze(s.ctx(), "big.csv", strings.NewReader(csv))
	s.Require().NoError(err)
	s.False(run.Paid)

	s.Require().NoError(s.svc.MarkPaid(s.ctx(), run.ID))

	stored, err := s.svc.Get(s.ctx(), run.ID)
	s.Require().NoError(err)
	s.True(stored.Paid)
	s.True(stored.Downloadable())
}

func (s *ServiceSuite) TestGetUnknownRun() {
	run, err := s.svc.Analyze(s.ctx(), "contacts.csv", strings.NewReader("name\nJane Doe\n"))
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(s.ctx(), run.ID))

	_, err = s.svc.Get(s.ctx(), run.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
