// Package token issues and validates the signed access/refresh token pair.
//
// Access tokens authorize individual requests and carry the member login id as
// subject plus an authority claim. Refresh tokens only terminate sessions and
// deliberately carry no subject: on its own a refresh token does not reveal
// whose session it belongs to, the binding lives in the refresh record store.
package token

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jyoon-dev/skyticket/internal/logger"
	"github.com/jyoon-dev/skyticket/internal/models"
)

const (
	defaultSigningMethod = "HS256"
	defaultAccessTTL     = 30 * time.Minute
	defaultRefreshTTL    = 7 * 24 * time.Hour

	// GrantType is the scheme label carried by every issued pair
	GrantType = "Bearer"

	// AuthorityMember is the only authority issued today
	AuthorityMember = "ROLE_MEMBER"

	authorityClaim = "auth"
)

type Config struct {
	// Secret to derive the signing key from, base64 encoded.
	// Required to be set
	Secret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set the default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set the defaults are used (30m access, 7d refresh)
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AccessClaims struct {
	jwt.RegisteredClaims
	Authority string `json:"auth"`
}

// Provider issues and validates signed tokens. Issue has no persistence side
// effect: storing the refresh record is the session service's job, signing
// stays a pure function of (member, now).
type Provider struct {
	key        []byte
	alg        jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     logger.Logger
}

func New(cfg Config, l logger.Logger) (*Provider, error) {
	if cfg.Secret == "" {
		return nil, errors.New("secret must not be empty")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("secret must be base64 encoded. Err: %w", err)
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}

	if l == nil {
		l = logger.NewNoOp()
	}

	return &Provider{
		key:        key,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		logger:     l,
	}, nil
}

// Issue mints a fresh token pair for the member.
// The caller is expected to have verified the member's credentials already.
func (p *Provider) Issue(member models.Member) (models.TokenPair, error) {
	var pair models.TokenPair
	now := time.Now().Truncate(time.Second)
	accessExpiresAt := now.Add(p.accessTTL)
	refreshExpiresAt := now.Add(p.refreshTTL)

	accessToken := jwt.NewWithClaims(
		p.alg,
		AccessClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   member.LoginID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
			},
			Authority: AuthorityMember,
		},
	)
	access, err := accessToken.SignedString(p.key)
	if err != nil {
		return pair, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	// Refresh token carries no subject, only expiry and a unique id
	refreshToken := jwt.NewWithClaims(
		p.alg,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
	)
	refresh, err := refreshToken.SignedString(p.key)
	if err != nil {
		return pair, fmt.Errorf("error while signing refresh token. Err: %w", err)
	}

	return models.TokenPair{
		GrantType:        GrantType,
		AccessToken:      access,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Validate reports whether the token is well formed, correctly signed and not
// expired. Every failure category collapses to false; the categories are only
// told apart in the logs.
func (p *Provider) Validate(tokenString string) bool {
	if tokenString == "" {
		p.logger.Info("token validation failed: empty token")
		return false
	}

	_, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{p.alg.Alg()}),
	)

	switch {
	case err == nil:
		return true
	case errors.Is(err, jwt.ErrTokenMalformed):
		p.logger.Info("token validation failed: malformed token")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		p.logger.Info("token validation failed: invalid signature")
	case errors.Is(err, jwt.ErrTokenExpired):
		p.logger.Info("token validation failed: token expired")
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		p.logger.Info("token validation failed: unsupported token")
	default:
		p.logger.Info("token validation failed", "error", err.Error())
	}

	return false
}

// ParseSubject validates an access token and returns its subject (the member
// login id). Used on every authenticated request; never touches the store.
func (p *Provider) ParseSubject(accessToken string) (string, error) {
	claims := &AccessClaims{}

	_, err := jwt.ParseWithClaims(
		accessToken,
		claims,
		func(t *jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{p.alg.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("error while parsing access token. Err: %w", err)
	}

	if claims.Subject == "" {
		return "", errors.New("access token has no subject")
	}

	return claims.Subject, nil
}
