// Package auth holds the session lifecycle: registration, login, logout and
// per-request member resolution.
//
// Session state is observable only through the refresh record store: a member
// with a record has an active session, a member without one has none. Login is
// the sole way in, logout (or a superseding login) the way out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/logger"
	"github.com/jyoon-dev/skyticket/internal/models"
	"github.com/jyoon-dev/skyticket/internal/repository"
)

// Header names and scheme prefix of the token contract
const (
	AccessHeader           = "Authorization"
	RefreshHeader          = "RefreshToken"
	AccessExpireTimeHeader = "Access-Token-Expire-Time"

	BearerPrefix = "Bearer "
)

// PasswordHasher creates and compares password hashes
type PasswordHasher interface {
	// Hash generates a hash from the raw password
	Hash(password string) (string, error)

	// Compare a known hash with a user supplied password.
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// TokenProvider issues and validates signed token pairs
type TokenProvider interface {
	Issue(member models.Member) (models.TokenPair, error)
	Validate(tokenString string) bool
	ParseSubject(accessToken string) (string, error)
}

type Config struct {
	// Hasher used during registration and login.
	// Defaults to BcryptHasher if not set
	Hasher PasswordHasher
}

type AuthService struct {
	hasher      PasswordHasher
	tokens      TokenProvider
	memberRepo  repository.MemberRepo
	refreshRepo repository.RefreshTokenRepo
	logger      logger.Logger
}

func NewService(cfg Config, tokens TokenProvider, memberRepo repository.MemberRepo, refreshRepo repository.RefreshTokenRepo, l logger.Logger) (*AuthService, error) {
	if tokens == nil {
		return nil, errors.New("token provider must not be nil")
	}
	if memberRepo == nil || refreshRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	if l == nil {
		l = logger.NewNoOp()
	}

	return &AuthService{
		hasher:      hasher,
		tokens:      tokens,
		memberRepo:  memberRepo,
		refreshRepo: refreshRepo,
		logger:      l,
	}, nil
}

// Register creates a member. It is pre-authentication: no tokens are issued,
// the new member still has to log in.
func (s *AuthService) Register(ctx context.Context, loginID string, password string, passwordConfirm string) (models.Member, error) {
	// A taken login id wins over a confirmation mismatch when both apply.
	// CreateMember still maps the unique violation for the lookup-insert race.
	_, err := s.memberRepo.GetMemberByLoginID(ctx, loginID)
	switch {
	case err == nil:
		return models.Member{}, apperrors.ErrMemberAlreadyExists
	case !errors.Is(err, apperrors.ErrMemberNotFound):
		return models.Member{}, err
	}

	if password != passwordConfirm {
		return models.Member{}, apperrors.ErrPasswordsNotMatched
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Member{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	member, err := s.memberRepo.CreateMember(ctx, loginID, hash)
	if err != nil {
		return models.Member{}, err
	}

	return member, nil
}

// Login verifies credentials, mints a token pair and stores the refresh token
// as the member's current record. A repeated login replaces the record, which
// implicitly revokes the previously issued refresh token.
func (s *AuthService) Login(ctx context.Context, loginID string, password string) (models.TokenPair, error) {
	var pair models.TokenPair

	member, err := s.memberRepo.GetMemberByLoginID(ctx, loginID)
	if err != nil {
		return pair, err
	}

	if err := s.hasher.Compare(member.HashedPassword, password); err != nil {
		return pair, apperrors.ErrInvalidMember
	}

	pair, err = s.tokens.Issue(member)
	if err != nil {
		return pair, fmt.Errorf("error while issuing token pair. Err: %w", err)
	}

	if _, err := s.refreshRepo.Upsert(ctx, member.ID, pair.RefreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return pair, nil
}

// Logout revokes the member's session: the presented refresh token must verify
// cryptographically and the member must have a stored record, which is then
// deleted. The presented value is not compared against the stored one; a
// mismatch is logged so stale-session logouts stay observable.
func (s *AuthService) Logout(ctx context.Context, member models.Member, refreshToken string) error {
	if !s.tokens.Validate(refreshToken) {
		return apperrors.ErrInvalidToken
	}

	record, err := s.refreshRepo.FindByMember(ctx, member.ID)
	if err != nil {
		return err
	}

	if record.Token != refreshToken {
		s.logger.Warn("logout with refresh token other than the stored one", "member", member.LoginID)
	}

	return s.refreshRepo.Delete(ctx, member.ID)
}

// ValidateToken reports whether a presented token verifies and is unexpired
func (s *AuthService) ValidateToken(tokenString string) bool {
	return s.tokens.Validate(tokenString)
}

// Authenticate resolves the calling member from the request's access token.
// Stateless: only the signature and expiry are checked, the store is touched
// just to load the member row.
func (s *AuthService) Authenticate(ctx context.Context, r *http.Request) (models.Member, error) {
	header := r.Header.Get(AccessHeader)
	access, found := strings.CutPrefix(header, BearerPrefix)
	if !found || access == "" {
		return models.Member{}, apperrors.ErrInvalidToken
	}

	loginID, err := s.tokens.ParseSubject(access)
	if err != nil {
		return models.Member{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	return s.memberRepo.GetMemberByLoginID(ctx, loginID)
}

// SetTokenPairToResponse writes the issued pair as the three response headers
// of the login contract.
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(AccessHeader, pair.GrantType+" "+pair.AccessToken)
	w.Header().Set(RefreshHeader, pair.RefreshToken)
	w.Header().Set(AccessExpireTimeHeader, strconv.FormatInt(pair.AccessExpiresAt.UnixMilli(), 10))
}

// GetRefreshString reads the refresh token presented by the client
func (s *AuthService) GetRefreshString(r *http.Request) string {
	return r.Header.Get(RefreshHeader)
}
