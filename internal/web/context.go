package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/MatrixWizard/internal/core"
	"github.com/JonMunkholm/MatrixWizard/internal/logging"
)

// WithRequestMetadata adds IP and User-Agent to context for session logs.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // Already processed by TrustedRealIP
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}

// sessionContext tags the request context with the {sessionID} URL
// parameter so every log line for the request carries it.
func sessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithRequestMetadata(r.Context(), r)
		ctx = logging.WithSessionID(ctx, chi.URLParam(r, "sessionID"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
