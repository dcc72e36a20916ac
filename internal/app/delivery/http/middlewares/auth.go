package middlewares

import (
	"clinirun-service/internal/pkg/constvars"
	"clinirun-service/internal/pkg/exceptions"
	"clinirun-service/internal/pkg/utils"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequirePatient resolves the bearer token to an authenticated patient and
// stores the id on the context.
func (m *Middlewares) RequirePatient(next http.Handler) http.Handler {
	return m.requireRole("patient", constvars.CONTEXT_PATIENT_ID_KEY, next)
}

// RequireClinic resolves the bearer token to an authenticated clinic and
// stores the id on the context.
func (m *Middlewares) RequireClinic(next http.Handler) http.Handler {
	return m.requireRole("clinic", constvars.CONTEXT_CLINIC_ID_KEY, next)
}

func (m *Middlewares) requireRole(role string, contextKey interface{}, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.parseToken(r)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized(err))
			return
		}
		if claims.Role != role || claims.Subject == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized(
				fmt.Errorf("token role %q cannot access %s resources", claims.Role, role)))
			return
		}

		ctx := context.WithValue(r.Context(), contextKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middlewares) parseToken(r *http.Request) (*sessionClaims, error) {
	authorization := r.Header.Get(constvars.HeaderAuthorization)
	if authorization == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenString, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return nil, fmt.Errorf("authorization header is not a bearer token")
	}

	claims := new(sessionClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(m.InternalConfig.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
