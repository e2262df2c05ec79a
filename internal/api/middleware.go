package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/wastewise/internal/auth"
	"github.com/erazemk/wastewise/internal/market"
	"github.com/erazemk/wastewise/internal/model"
	"github.com/erazemk/wastewise/internal/store"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated user of a request together with the
// credential that identified them.
type Principal struct {
	User *model.User
	// CredentialID is the session id or token JTI, used for revocation.
	CredentialID string
	ExpiresAt    time.Time
	// Session reports whether the credential is a cookie session.
	Session bool
}

// Authenticator resolves the principal of a request from its session cookie
// or bearer token.
type Authenticator struct {
	Market      *market.Market
	Sessions    *auth.Sessions
	Revocations store.Revocations
	JWTSecret   string
}

// principal returns the request's principal, or nil if the request carries
// no valid credential.
func (a *Authenticator) principal(r *http.Request) (*Principal, error) {
	var p Principal
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		claims, err := auth.ValidateToken(a.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.ID == "" {
			return nil, nil
		}
		p.CredentialID = claims.ID
		if claims.ExpiresAt != nil {
			p.ExpiresAt = claims.ExpiresAt.Time
		}
		p.User = &model.User{ID: claims.UserID}
	} else {
		userID, sid, ok := a.Sessions.Lookup(r)
		if !ok {
			return nil, nil
		}
		p.CredentialID = sid
		p.ExpiresAt = time.Now().Add(auth.SessionExpiry)
		p.Session = true
		p.User = &model.User{ID: userID}
	}

	revoked, err := a.Revocations.IsRevoked(r.Context(), p.CredentialID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, nil
	}

	user, err := a.Market.GetUser(r.Context(), p.User.ID)
	if err != nil || user == nil {
		return nil, err
	}
	p.User = user
	return &p, nil
}

// Require rejects requests without a valid credential and stores the
// principal in the request context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := a.principal(r)
		if err != nil {
			serverError(w, r, "Error authenticating request", err)
			return
		}
		if p == nil {
			jsonError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal retrieves the principal from the context.
func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
