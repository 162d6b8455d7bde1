package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/push"
)

type errorResponse struct {
	Error      string   `json:"error"`
	Candidates []string `json:"candidates,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, push.ErrNotConfigured), errors.Is(err, common.ErrReportsDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrAmbiguousMatch):
		return http.StatusConflict
	case errors.Is(err, common.ErrServerURLNotSet):
		return http.StatusPreconditionFailed
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrRemoteUnavailable), errors.Is(err, common.ErrPushRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a service error onto a status and a JSON body. Internal
// errors are logged and never echoed.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	var amb *customers.AmbiguousMatchError
	if errors.As(err, &amb) {
		resp.Candidates = amb.Candidates
	}

	switch {
	case status == http.StatusInternalServerError:
		a.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Error = common.ErrorInternal.Error()
	case status == http.StatusBadGateway:
		a.log.Error(r.Context(), "remote call failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, resp)
}
