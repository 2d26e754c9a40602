// Package auth issues and verifies the bearer tokens guarding the API.
//
// Tokens are HS256 JWTs. An access token is short lived and is the only one
// accepted by the API; a refresh token can only be exchanged for a new access
// token. The "typ" claim tells them apart.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/sales-analytics/internal/apperr"
	"github.com/tuanvumaihuynh/sales-analytics/internal/config"
	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
	"github.com/tuanvumaihuynh/sales-analytics/internal/repository"
	"github.com/tuanvumaihuynh/sales-analytics/pkg/validator"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// CredentialsForm is used both to register and to obtain tokens.
type CredentialsForm struct {
	Username string `json:"username" form:"username" validate:"required,max=150"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

type claims struct {
	jwtlib.RegisteredClaims
	Type     string `json:"typ"`
	Username string `json:"username"`
}

type Service struct {
	users      repository.UserRepository
	validator  validator.Validator
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	dummyHash  []byte
}

func NewService(cfg config.Auth, users repository.UserRepository, v validator.Validator) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate auth config: %w", err)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &Service{
		users:      users,
		validator:  v,
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		dummyHash:  dummy,
	}, nil
}

func (s *Service) Register(ctx context.Context, form CredentialsForm) (model.User, error) {
	form.Username = strings.TrimSpace(form.Username)
	if err := s.validator.Validate(form); err != nil {
		if validator.IsValidationError(err) {
			return model.User{}, apperr.ValidationErr.WrapParent(err)
		}
		return model.User{}, fmt.Errorf("validate credentials: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.User{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	user := model.User{
		ID:           id,
		Username:     form.Username,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, apperr.UsernameTakenErr
		}
		return model.User{}, fmt.Errorf("user repository create user: %w", err)
	}

	return user, nil
}

// ObtainTokens checks the credentials and issues an access and refresh pair.
func (s *Service) ObtainTokens(ctx context.Context, form CredentialsForm) (TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(form.Username))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return TokenPair{}, fmt.Errorf("user repository get user: %w", err)
	}

	if err != nil {
		// Keep the response time independent of whether the user exists.
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(form.Password))
		return TokenPair{}, apperr.InvalidCredentialsErr
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)) != nil || !user.Active {
		return TokenPair{}, apperr.InvalidCredentialsErr
	}

	access, err := s.sign(user.ID, user.Username, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(user.ID, user.Username, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshTokens exchanges a refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (TokenPair, error) {
	p, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := s.users.GetUserByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, apperr.InvalidTokenErr
		}
		return TokenPair{}, fmt.Errorf("user repository get user: %w", err)
	}
	if !user.Active || user.ID != p.UserID {
		return TokenPair{}, apperr.InvalidTokenErr
	}

	access, err := s.sign(user.ID, user.Username, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refreshToken}, nil
}

func (s *Service) ParseAccessToken(token string) (Principal, error) {
	return s.parse(token, TokenTypeAccess)
}

func (s *Service) sign(userID uuid.UUID, username, typ string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	c := claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Type:     typ,
		Username: username,
	}

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return token, nil
}

func (s *Service) parse(token, typ string) (Principal, error) {
	c := &claims{}
	parsed, err := jwtlib.ParseWithClaims(token, c, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(s.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || c.Type != typ {
		return Principal{}, apperr.InvalidTokenErr
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, apperr.InvalidTokenErr
	}

	return Principal{UserID: userID, Username: c.Username}, nil
}

type principalCtxKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}
