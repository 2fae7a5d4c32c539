package middleware

import (
	"context"
	"fmt"
	"net/http"

	"bend/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims
type Claims struct {
	Name string             `json:"name"`
	ID   string             `json:"id"`
	Kind models.AccountKind `json:"kind"`
	jwt.RegisteredClaims
}

type ContextKey string

const UserIDKey ContextKey = "userId"
const AccountKindKey ContextKey = "accountKind"

// Auth validates bearer tokens. The signing secret is injected at
// construction; nothing reads it from a package global.
type Auth struct {
	secret []byte
}

func NewAuth(secret []byte) *Auth {
	return &Auth{secret: secret}
}

func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.ValidateJWT(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.ID)
		ctx = context.WithValue(ctx, AccountKindKey, claims.Kind)
		next(w, r.WithContext(ctx), ps)
	}
}

func (a *Auth) OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := a.ValidateJWT(r.Header.Get("Authorization")); err == nil {
			ctx := context.WithValue(r.Context(), UserIDKey, claims.ID)
			ctx = context.WithValue(ctx, AccountKindKey, claims.Kind)
			r = r.WithContext(ctx)
		}
		// Proceed regardless of token state
		next(w, r, ps)
	}
}

func (a *Auth) ValidateJWT(tokenString string) (*Claims, error) {
	if len(tokenString) < 8 || tokenString[:7] != "Bearer " {
		return nil, fmt.Errorf("invalid token format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString[7:], claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}

// RequesterID pulls the authenticated account ID out of the request context.
func RequesterID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(UserIDKey).(string)
	return id, ok && id != ""
}

// RequesterKind pulls the authenticated account kind out of the request context.
func RequesterKind(r *http.Request) (models.AccountKind, bool) {
	kind, ok := r.Context().Value(AccountKindKey).(models.AccountKind)
	return kind, ok
}
