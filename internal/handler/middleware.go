package handler

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const AuthTokenHeader = "auth-token"

const unauthenticatedMessage = "Please authenticate using a valid token"

type contextKey int

const callerIDKey contextKey = iota

// Authenticate verifies the auth-token header and injects the caller's user
// id into the request context. Requests without a valid token never reach
// the note handlers.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tokenString := req.Header.Get(AuthTokenHeader)
		if tokenString == "" {
			h.sendError(w, http.StatusUnauthorized, unauthenticatedMessage)
			return
		}

		userID, err := parseUserToken(h.JWTSecret, tokenString)
		if err != nil {
			h.Logger.Debugf("rejected token: %v", err)
			h.sendError(w, http.StatusUnauthorized, unauthenticatedMessage)
			return
		}

		ctx := context.WithValue(req.Context(), callerIDKey, userID)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// callerID returns the user id stored by Authenticate. It is only called
// from handlers behind the middleware, so the value is always present.
func callerID(req *http.Request) string {
	id, _ := req.Context().Value(callerIDKey).(string)
	return id
}

func parseUserToken(secret []byte, tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})
	if err != nil {
		return "", errors.Wrap(err, "jwt.ParseWithClaims")
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	user, ok := claims["user"].(map[string]interface{})
	if !ok {
		return "", errors.New("token has no user claim")
	}
	id, ok := user["id"].(string)
	if !ok || id == "" {
		return "", errors.New("token has no user id")
	}

	return id, nil
}

// NewUserToken mints a token accepted by Authenticate for the given user.
func NewUserToken(secret []byte, userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]interface{}{"id": userID},
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "token.SignedString")
	}

	return signed, nil
}
