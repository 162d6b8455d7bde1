package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/customers"
)

const (
	maxBodyBytes       = 1 << 20
	defaultRecentLimit = 10
	defaultHistory     = 10
	defaultDays        = 7
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", common.ErrorValidation, err)
	}
	return nil
}

// intParam reads a positive integer query parameter, def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", common.ErrorValidation, name)
	}
	return n, nil
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := a.deps.Settings.Ready(r.Context()); err != nil {
		a.log.Warn(r.Context(), "not ready", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]bool{"ready": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}

	token, err := a.deps.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.deps.Auth.TokenValidity().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type serverURLBody struct {
	ServerURL string `json:"server_url"`
}

func (a *API) handleGetServerURL(w http.ResponseWriter, r *http.Request) {
	v, err := a.deps.Settings.ServerURL(r.Context())
	if err != nil && !errors.Is(err, common.ErrServerURLNotSet) {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, serverURLBody{ServerURL: v})
}

func (a *API) handleSetServerURL(w http.ResponseWriter, r *http.Request) {
	var req serverURLBody
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	v, err := a.deps.Settings.SetServerURL(r.Context(), req.ServerURL)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, serverURLBody{ServerURL: v})
}

func (a *API) handleServerURLHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultHistory)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	items, err := a.deps.Settings.History(r.Context(), limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleOverview(w http.ResponseWriter, r *http.Request) {
	o, err := a.deps.Dashboard.Overview(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) handleCustomers(w http.ResponseWriter, r *http.Request) {
	recs, err := a.deps.Dashboard.Customers(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": recs})
}

func (a *API) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultRecentLimit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	recs, err := a.deps.Dashboard.Recent(r.Context(), limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": recs})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	policy := a.deps.Dashboard.DefaultMatch()
	if m := r.URL.Query().Get("match"); m != "" {
		p, err := customers.ParseMatchPolicy(m)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		policy = p
	}

	rec, err := a.deps.Dashboard.Customer(r.Context(), r.URL.Query().Get("q"), policy)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleCustomer(w http.ResponseWriter, r *http.Request) {
	rec, err := a.deps.Dashboard.Customer(r.Context(), r.PathValue("id"), customers.MatchExact)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) handleStatistics(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	st, err := a.deps.Dashboard.Statistics(r.Context(), days)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleDownloadCategory(w http.ResponseWriter, r *http.Request) {
	u, err := a.deps.Files.CategoryDownloadURL(r.Context(), r.PathValue("id"), r.PathValue("category"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

func (a *API) handleDownloadArchive(w http.ResponseWriter, r *http.Request) {
	u, err := a.deps.Files.ArchiveDownloadURL(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

func (a *API) writeDeleteResult(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	a.log.Info(r.Context(), "delete requested", "by", UsernameFromContext(r.Context()), "path", r.URL.Path)
	writeJSON(w, http.StatusOK, map[string]string{"result": msg})
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	msg, err := a.deps.Files.DeleteCategory(r.Context(), r.PathValue("id"), r.PathValue("category"))
	a.writeDeleteResult(w, r, msg, err)
}

func (a *API) handleDeleteArchive(w http.ResponseWriter, r *http.Request) {
	msg, err := a.deps.Files.DeleteArchive(r.Context(), r.PathValue("id"))
	a.writeDeleteResult(w, r, msg, err)
}

func (a *API) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	msg, err := a.deps.Files.DeleteCustomer(r.Context(), r.PathValue("id"))
	a.writeDeleteResult(w, r, msg, err)
}

func (a *API) handleCommandPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": a.deps.Commands.Presets()})
}

type commandRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (a *API) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := a.deps.Commands.Send(r.Context(), r.PathValue("id"), req.Title, req.Body); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (a *API) handleExportReport(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultDays)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	key, url, err := a.deps.Reports.Export(r.Context(), days)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key, "url": url})
}
