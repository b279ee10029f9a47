package chi

import (
	"net/http"
	"strings"

	"github.com/zxpress/fcsgate/internal/domain/sru"
	"github.com/zxpress/fcsgate/internal/metrics"
	"github.com/zxpress/fcsgate/internal/transport/sruxml"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
// Failures on sruPath are rendered as an SRU authentication diagnostic,
// everywhere else as a JSON error.
func BearerAuthMiddleware(apiKeys []string, sruPath string) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled: pass everything through
		if len(validKeys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			// Preflight requests carry no credentials.
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			reject := func(msg string) {
				if r.URL.Path == sruPath {
					writeAuthDiagnostic(w, r, msg)
					return
				}
				writeError(w, http.StatusUnauthorized, "unauthorized", msg)
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				reject("missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				reject("authorization header must use Bearer scheme")
				return
			}

			token := auth[len(bearerPrefix):]
			if _, ok := validKeys[token]; !ok {
				reject("invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthDiagnostic(w http.ResponseWriter, r *http.Request, msg string) {
	q := r.URL.Query()
	v := sru.Negotiate(firstNonEmpty(q.Get("version"), q.Get("sruVersion")))
	d := sru.NewDiagnostic(sru.CodeAuthenticationError, msg)

	eventFrom(r.Context()).Diagnostic = d.Code
	metrics.SRUDiagnosticsTotal.WithLabelValues(d.Code).Inc()

	body, err := sruxml.RenderDiagnostic(d, v)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	// SRU clients expect diagnostics in a 200 body; the challenge header still
	// tells generic HTTP clients what failed.
	sruxml.SetHeaders(w.Header(), v)
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
