package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

const maxStatisticsDays = 366

// ServerURLSource resolves the remote file server in use.
type ServerURLSource interface {
	ServerURL(ctx context.Context) (string, error)
}

// FileLister reads the remote file server.
type FileLister interface {
	ListFiles(ctx context.Context, base string) ([]models.RawFileEntry, error)
	ArchiveExists(ctx context.Context, base, id string) (bool, error)
}

// StatusReporter is told whether the last listing fetch worked.
type StatusReporter interface {
	SetRemoteServing(serving bool)
}

type nopReporter struct{}

func (nopReporter) SetRemoteServing(bool) {}

// Snapshot is one listing fetch and everything derived from it.
type Snapshot struct {
	ServerURL string
	Raw       []models.RawFileEntry
	Entries   []models.ParsedFile
	Rejected  []string
	Records   map[string]*models.CustomerRecord
}

type DashboardOptions struct {
	Strategy       filenames.Strategy
	Representative customers.Representative
	Match          customers.MatchPolicy
	Categories     []string
}

type DashboardService struct {
	urls   ServerURLSource
	remote FileLister
	parser *filenames.Parser
	opts   DashboardOptions
	status StatusReporter
	now    func() time.Time
	log    logging.Logger
}

func NewDashboardService(urls ServerURLSource, remote FileLister, opts DashboardOptions, status StatusReporter, log logging.Logger) *DashboardService {
	if status == nil {
		status = nopReporter{}
	}
	if len(opts.Categories) == 0 {
		opts.Categories = customers.DefaultCategories
	}
	return &DashboardService{
		urls:   urls,
		remote: remote,
		parser: filenames.NewParser(opts.Strategy),
		opts:   opts,
		status: status,
		now:    time.Now,
		log:    log.With("module", "dashboard"),
	}
}

// DefaultMatch is the match policy searches use when none is requested.
func (s *DashboardService) DefaultMatch() customers.MatchPolicy {
	return s.opts.Match
}

// Snapshot fetches the listing and aggregates it. Unparseable names are
// logged and dropped.
func (s *DashboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	base, err := s.urls.ServerURL(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.remote.ListFiles(ctx, base)
	if err != nil {
		s.status.SetRemoteServing(false)
		s.log.Error(ctx, "listing fetch failed", "server_url", base, "error", err)
		return nil, err
	}
	s.status.SetRemoteServing(true)

	names := make([]string, len(raw))
	for i, e := range raw {
		names[i] = e.Name
	}
	entries, rejected := s.parser.ParseAll(names)
	for _, name := range rejected {
		s.log.Warn(ctx, "dropping unparseable file name", "name", name)
	}

	s.log.Debug(ctx, "listing fetched", "files", len(raw), "rejected", len(rejected))
	return &Snapshot{
		ServerURL: base,
		Raw:       raw,
		Entries:   entries,
		Rejected:  rejected,
		Records:   customers.Aggregate(entries, s.opts.Representative),
	}, nil
}

// Customers returns every record, sorted by identifier.
func (s *DashboardService) Customers(ctx context.Context) ([]*models.CustomerRecord, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return customers.Sorted(snap.Records), nil
}

func (s *DashboardService) Recent(ctx context.Context, n int) ([]*models.CustomerRecord, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return customers.Recent(snap.Records, n), nil
}

func (s *DashboardService) Overview(ctx context.Context) (models.Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Overview{}, err
	}
	return customers.Summary(snap.Records, snap.Entries, len(snap.Rejected)), nil
}

// Customer looks a record up and confirms its main archive with the file
// server. A failed check keeps what the listing said.
func (s *DashboardService) Customer(ctx context.Context, query string, policy customers.MatchPolicy) (*models.CustomerRecord, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := customers.Lookup(snap.Records, query, policy)
	if err != nil {
		return nil, err
	}

	out := *rec
	exists, err := s.remote.ArchiveExists(ctx, snap.ServerURL, rec.Identifier)
	if err != nil {
		s.log.Warn(ctx, "archive check failed", "identifier", rec.Identifier, "error", err)
		return &out, nil
	}
	out.MainArchiveExists = exists
	return &out, nil
}

func validateDays(days int) error {
	if days < 1 || days > maxStatisticsDays {
		return fmt.Errorf("%w: days must be between 1 and %d", common.ErrorValidation, maxStatisticsDays)
	}
	return nil
}

func (s *DashboardService) Statistics(ctx context.Context, days int) (models.Statistics, error) {
	if err := validateDays(days); err != nil {
		return models.Statistics{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Statistics{}, err
	}
	return customers.Summarize(snap.Entries, s.now(), days, s.opts.Categories), nil
}

// Report combines the overview and statistics of a single snapshot.
func (s *DashboardService) Report(ctx context.Context, days int) (models.Report, error) {
	if err := validateDays(days); err != nil {
		return models.Report{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return models.Report{}, err
	}
	at := s.now()
	return models.Report{
		GeneratedAt: at.UTC().Format(time.RFC3339),
		ServerURL:   snap.ServerURL,
		Overview:    customers.Summary(snap.Records, snap.Entries, len(snap.Rejected)),
		Statistics:  customers.Summarize(snap.Entries, at, days, s.opts.Categories),
	}, nil
}
