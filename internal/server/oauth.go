package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"sync/atomic"

	"golang.org/x/oauth2"
)

// TokenExchanger trades an authorization code for a token.
// Implemented by services.DriveService.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// OAuthResult is the outcome of one authorization attempt: a token or the reason there is none.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// callbackError is a failed callback and the status the browser is shown for it.
type callbackError struct {
	status int
	err    error
}

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

// OAuthHandler serves the Google redirect of the authorization code flow. It accepts a single
// callback; the outcome is delivered once on [OAuthHandler.Result].
type OAuthHandler struct {
	exchanger TokenExchanger
	state     string
	handled   atomic.Bool
	done      chan OAuthResult
}

// NewOAuthHandler creates a handler that checks callbacks against state and exchanges
// their code with exchanger.
func NewOAuthHandler(exchanger TokenExchanger, state string) *OAuthHandler {
	return &OAuthHandler{
		exchanger: exchanger,
		state:     state,
		done:      make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// Result delivers exactly one [OAuthResult] and is then closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.done
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.handled.CompareAndSwap(false, true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	token, err := h.authorize(r)
	h.done <- OAuthResult{Token: token, err: err}
	close(h.done)

	if err != nil {
		status := http.StatusInternalServerError
		var cbErr *callbackError
		if errors.As(err, &cbErr) {
			status = cbErr.status
		}
		writePage(w, status, "Google Drive was not connected", err.Error())
		return
	}
	writePage(w, http.StatusOK, "✓ Google Drive connected", "You can close this window and return to the terminal.")
}

// authorize validates the callback query and exchanges its code.
func (h *OAuthHandler) authorize(r *http.Request) (*oauth2.Token, error) {
	query := r.URL.Query()

	if query.Get("state") != h.state {
		return nil, &callbackError{http.StatusBadRequest, errors.New("invalid state parameter")}
	}

	code := query.Get("code")
	if code == "" {
		reason := query.Get("error")
		if reason == "" {
			reason = "no authorization code"
		}
		if desc := query.Get("error_description"); desc != "" {
			reason += " - " + desc
		}
		return nil, &callbackError{http.StatusBadRequest, fmt.Errorf("authorization failed: %s", reason)}
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		return nil, &callbackError{http.StatusInternalServerError, fmt.Errorf("token exchange failed: %w", err)}
	}
	return token, nil
}

func writePage(w http.ResponseWriter, status int, heading, detail string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, pageTemplate, html.EscapeString(heading), html.EscapeString(heading), html.EscapeString(detail))
}

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>studio: %s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: grid; place-items: center; height: 100vh; margin: 0; background: #f5f5f5; }
        main { text-align: center; background: white; padding: 2rem; border-radius: 8px; }
        h1 { color: #1a73e8; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <main>
        <h1>%s</h1>
        <p>%s</p>
    </main>
</body>
</html>
`
