package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ClientIDHeader = "X-Client-ID"
	ClientCookie   = "abk_client"

	ClientIDKey contextKey = "client_id"

	clientCookieMaxAge = 365 * 24 * time.Hour
)

var validClientID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// ClientIdentity resolves the browser client a request belongs to.
// The X-Client-ID header wins over the abk_client cookie; a client presenting neither
// gets a fresh id in a cookie. The resolved id is echoed in the X-Client-ID response header.
func ClientIdentity(secureCookie bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := r.Header.Get(ClientIDHeader)

			if !validClientID.MatchString(clientID) {
				clientID = ""
				if c, err := r.Cookie(ClientCookie); err == nil && validClientID.MatchString(c.Value) {
					clientID = c.Value
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    clientID,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secureCookie,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("Issued client id", zap.String("client_id", clientID))
			}

			w.Header().Set(ClientIDHeader, clientID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClientIDKey, clientID)))
		})
	}
}

// GetClientID extracts the client id set by ClientIdentity
func GetClientID(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok && clientID != ""
}
