package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/cryptox"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/config"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const custID = "AAAAAAAAAAAAAAAA"

func newFileServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files.json.php":
			_ = json.NewEncoder(w).Encode([]models.RawFileEntry{
				{Name: custID + "Sms20240101120000.zip"},
				{Name: custID + "Calls20240102130000.zip"},
				{Name: "bad"},
			})
		case "/uploads/" + custID + "_.zip":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := cryptox.HashPassword("secret")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "fileboard.db")
	cfg.AdminPasswordHash = hash
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.EndpointAddrGRPC = "127.0.0.1:0"
	cfg.RemoteRetryMax = 0
	cfg.RemoteTimeout = 2 * time.Second
	return cfg
}

func call(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestApp_EndToEnd(t *testing.T) {
	files := newFileServer(t)
	app, err := NewApp(context.Background(), testConfig(t), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	h := app.Handler()

	rr := call(t, h, http.MethodPost, "/api/v1/login", "", `{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var login map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	token := login["token"]
	require.NotEmpty(t, token)

	// nothing is fetched before a server URL exists
	rr = call(t, h, http.MethodGet, "/api/v1/customers", token, "")
	assert.Equal(t, http.StatusPreconditionFailed, rr.Code)

	rr = call(t, h, http.MethodPut, "/api/v1/settings/server-url", token, `{"server_url":"`+files.URL+`/uploads/"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), files.URL+"/uploads")

	rr = call(t, h, http.MethodGet, "/api/v1/customers/"+custID, token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var rec models.CustomerRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, 2, rec.FileCount)
	assert.True(t, rec.MainArchiveExists)
	assert.Equal(t, "2024-01-02", rec.LastActivity)

	rr = call(t, h, http.MethodGet, "/api/v1/overview", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var o models.Overview
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &o))
	assert.Equal(t, models.Overview{Customers: 1, Files: 2, RejectedNames: 1}, o)

	rr = call(t, h, http.MethodGet, "/api/v1/settings/server-url/history", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), files.URL)

	rr = call(t, h, http.MethodPost, "/api/v1/reports", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = call(t, h, http.MethodPost, "/api/v1/customers/"+custID+"/commands", token, `{"title":"Sms"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), logging.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.Error(t, app.Settings().Ready(context.Background()))
}

func TestNewApp_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.MatchPolicy = "fuzzy"
	_, err := NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.DatabaseDSN = ""
	_, err = NewApp(context.Background(), cfg, logging.Nop())
	assert.Error(t, err)
}
