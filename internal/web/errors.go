package web

// errors.go renders failures for the web layer. The technical error is
// logged with the request id; the client gets the mapped user message as
// JSON for API callers or as an HTML page for the browser.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/labeler/internal/core"
	"github.com/JonMunkholm/labeler/internal/logging"
	"github.com/JonMunkholm/labeler/internal/web/templates"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := templates.ErrorPage(userMsg).Render(r.Context(), w); err != nil {
		logger.Error("render error page", "error", err)
	}
}

func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor picks the HTTP status for a core error.
func statusFor(err error) int {
	var ve *core.ValidationError
	var ie *core.ImportError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ve), errors.Is(err, core.ErrPositionOutOfRange),
		errors.As(err, &ie), errors.Is(err, core.ErrEmptyTable):
		return http.StatusUnprocessableEntity
	case errors.As(err, &mbe), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrStaleView), errors.Is(err, core.ErrNoDataset):
		return http.StatusConflict
	case errors.Is(err, errBadForm):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
