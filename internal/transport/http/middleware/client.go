package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClientIDKey is the context key for the caller's opaque client id.
	ClientIDKey contextKey = "client_id"
)

// ClientTokenHeader carries the signed client identity in both directions.
const ClientTokenHeader = "X-Client-Token"

// ClientIdentity assigns every caller an opaque client id, the equivalent of
// one browser instance in the original application. The id partitions the
// private storage namespace (the session pointer); it is not user
// authentication — that stays with the stored session.
//
// The id rides in a signed HS256 token so one client cannot name another
// client's namespace. A missing or invalid token simply mints a fresh
// identity and returns it in the response header for the caller to keep.
func ClientIdentity(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := parseClientToken(r.Header.Get(ClientTokenHeader), secret)

			if clientID == "" {
				clientID = uuid.NewString()
				if token, err := signClientToken(clientID, secret); err == nil {
					w.Header().Set(ClientTokenHeader, token)
				}
			}

			ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientID extracts the client id from the request context.
func GetClientID(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDKey).(string)
	return clientID, ok
}

func parseClientToken(tokenString, secret string) string {
	if tokenString == "" {
		return ""
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	clientID, _ := claims["client_id"].(string)
	return clientID
}

func signClientToken(clientID, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": clientID,
		"iat":       time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}
