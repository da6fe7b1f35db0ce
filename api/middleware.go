package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/festival-registration-api/config"
)

const (
	// AdminScope is carried by every admin session token
	AdminScope = "admin"
	// TokenTTL is how long an admin session token stays valid
	TokenTTL = 12 * time.Hour

	tokenIssuer = "festival-registration-api"
)

// ErrLoginDisabled is returned when no admin credentials are configured
var ErrLoginDisabled = errors.New("admin login is not configured")

// AdminClaims are the claims of an admin session token
type AdminClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// LoginResponse is returned by a successful admin login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AdminAuth guards the admin routes. Login checks basic credentials against
// the configured admin and hands out a signed session token.
type AdminAuth struct {
	email         string
	passwordHash  []byte
	secret        []byte
	authenticator auth.Authenticator
	now           func() time.Time
}

// NewAdminAuth sets up the admin gate from the config values
func NewAdminAuth(conf config.Config) *AdminAuth {
	a := &AdminAuth{
		email:        strings.TrimSpace(strings.ToLower(conf.AdminEmail)),
		passwordHash: []byte(conf.AdminPasswordHash),
		secret:       []byte(conf.JWTSecret),
		now:          time.Now,
	}
	a.setupGoGuardian()
	return a
}

// setupGoGuardian sets up the go-guardian basic strategy used by Login
func (a *AdminAuth) setupGoGuardian() {
	a.authenticator = auth.New()
	cache := store.NewFIFO(context.Background(), 5*time.Minute)
	a.authenticator.EnableStrategy(basic.StrategyKey, basic.New(a.ValidateAdmin, cache))
}

// ValidateAdmin validates basic auth credentials against the configured admin
func (a *AdminAuth) ValidateAdmin(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	if a.email == "" || len(a.passwordHash) == 0 {
		return nil, ErrLoginDisabled
	}

	usernameHash := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(email))))
	expectedUsernameHash := sha256.Sum256([]byte(a.email))
	usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	if usernameMatch {
		return auth.NewDefaultUser(a.email, AdminScope, nil, nil), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

// Login exchanges basic auth credentials for an admin session token
func (a *AdminAuth) Login(w http.ResponseWriter, r *http.Request) {
	user, err := a.authenticator.Authenticate(r)
	if err != nil {
		zap.S().Warnw("admin login failed", "error", err, "remote", r.RemoteAddr)
		config.WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	token, expiresAt, err := a.IssueToken(user.UserName())
	if err != nil {
		config.ErrorStatus("failed to issue token", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("admin logged in", "email", user.UserName())
	config.WriteJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// IssueToken signs a session token for the admin
func (a *AdminAuth) IssueToken(subject string) (string, time.Time, error) {
	if len(a.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("JWT_SECRET is not set")
	}

	now := a.now()
	expiresAt := now.Add(TokenTTL)
	claims := AdminClaims{
		Scope: AdminScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates a session token and returns its claims
func (a *AdminAuth) ParseToken(token string) (*AdminClaims, error) {
	if len(a.secret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Scope != AdminScope {
		return nil, fmt.Errorf("token scope %q is not %q", claims.Scope, AdminScope)
	}
	return claims, nil
}

// Middleware only lets requests with a valid admin token through. The token
// is read from the Authorization header or, for websockets, the token query
// parameter.
func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.ParseToken(bearerToken(r))
		if err != nil {
			zap.S().Warnw("unauthorized", "url", r.URL.Path, "error", err)
			config.WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			return
		}
		zap.S().Debugf("Admin %s Authenticated\n", claims.Subject)
		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), claims.Subject)))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}
