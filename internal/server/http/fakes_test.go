package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

const (
	goodToken = "good-token"
	custID    = "AAAAAAAAAAAAAAAA"
)

type fakeAuth struct{}

func (fakeAuth) Login(ctx context.Context, username, password string) (string, error) {
	if username == "admin" && password == "secret" {
		return goodToken, nil
	}
	return "", common.ErrorUnauthorized
}

func (fakeAuth) Authenticate(token string) (string, error) {
	switch token {
	case goodToken:
		return "admin", nil
	case "expired":
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrInvalidToken
	}
}

func (fakeAuth) TokenValidity() time.Duration { return time.Hour }

type fakeSettings struct {
	url      string
	err      error
	setErr   error
	readyErr error
	history  []models.Setting
}

func (f *fakeSettings) ServerURL(context.Context) (string, error) { return f.url, f.err }

func (f *fakeSettings) SetServerURL(ctx context.Context, raw string) (string, error) {
	if f.setErr != nil {
		return "", f.setErr
	}
	f.url = strings.TrimRight(raw, "/")
	return f.url, nil
}

func (f *fakeSettings) History(ctx context.Context, limit int) ([]models.Setting, error) {
	return f.history, nil
}

func (f *fakeSettings) Ready(context.Context) error { return f.readyErr }

type fakeDashboard struct {
	records    []*models.CustomerRecord
	err        error
	lastQuery  string
	lastPolicy customers.MatchPolicy
	lastDays   int
	lastLimit  int
}

func (f *fakeDashboard) DefaultMatch() customers.MatchPolicy { return customers.MatchPrefix }

func (f *fakeDashboard) Customers(context.Context) ([]*models.CustomerRecord, error) {
	return f.records, f.err
}

func (f *fakeDashboard) Recent(ctx context.Context, n int) ([]*models.CustomerRecord, error) {
	f.lastLimit = n
	return f.records, f.err
}

func (f *fakeDashboard) Overview(context.Context) (models.Overview, error) {
	return models.Overview{Customers: len(f.records)}, f.err
}

func (f *fakeDashboard) Customer(ctx context.Context, query string, policy customers.MatchPolicy) (*models.CustomerRecord, error) {
	f.lastQuery, f.lastPolicy = query, policy
	if f.err != nil {
		return nil, f.err
	}
	recs := map[string]*models.CustomerRecord{}
	for _, r := range f.records {
		recs[r.Identifier] = r
	}
	return customers.Lookup(recs, query, policy)
}

func (f *fakeDashboard) Statistics(ctx context.Context, days int) (models.Statistics, error) {
	f.lastDays = days
	return models.Statistics{Days: days}, f.err
}

type fakeFiles struct {
	err     error
	deleted []string
}

func (f *fakeFiles) CategoryDownloadURL(ctx context.Context, id, category string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "http://files/uploads/" + id + category + "20240101120000.zip", nil
}

func (f *fakeFiles) ArchiveDownloadURL(ctx context.Context, id string) (string, error) {
	return "http://files/download_customer_zip.php?customerId=" + id, f.err
}

func (f *fakeFiles) DeleteCategory(ctx context.Context, id, category string) (string, error) {
	f.deleted = append(f.deleted, id+category+"*")
	return "deleted 1", f.err
}

func (f *fakeFiles) DeleteArchive(ctx context.Context, id string) (string, error) {
	f.deleted = append(f.deleted, id+"_*.zip")
	return "deleted 1", f.err
}

func (f *fakeFiles) DeleteCustomer(ctx context.Context, id string) (string, error) {
	f.deleted = append(f.deleted, id+"*")
	return "deleted 3", f.err
}

type fakeCommands struct {
	err  error
	sent []string
}

func (f *fakeCommands) Presets() []models.CommandPreset {
	return []models.CommandPreset{{Title: "Sms", Body: "upload"}}
}

func (f *fakeCommands) Send(ctx context.Context, id, title, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, id+":"+title+":"+body)
	return nil
}

type fakeReports struct {
	err  error
	days int
}

func (f *fakeReports) Export(ctx context.Context, days int) (string, string, error) {
	f.days = days
	if f.err != nil {
		return "", "", f.err
	}
	return "reports/2024/01/03/x.json", "http://signed", nil
}

type fixture struct {
	api       *API
	settings  *fakeSettings
	dashboard *fakeDashboard
	files     *fakeFiles
	commands  *fakeCommands
	reports   *fakeReports
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		settings: &fakeSettings{url: "http://files"},
		dashboard: &fakeDashboard{records: []*models.CustomerRecord{
			{Identifier: custID, Categories: map[string]string{"Sms": custID + "Sms20240101120000.zip"}},
			{Identifier: "AAAAAAAAAAAAAAAB", Categories: map[string]string{}},
		}},
		files:    &fakeFiles{},
		commands: &fakeCommands{},
		reports:  &fakeReports{},
	}
	f.api = New(Deps{
		Auth:      fakeAuth{},
		Settings:  f.settings,
		Dashboard: f.dashboard,
		Files:     f.files,
		Commands:  f.commands,
		Reports:   f.reports,
	}, logging.Nop())
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+goodToken)
	rr := httptest.NewRecorder()
	f.api.ServeHTTP(rr, req)
	return rr
}
