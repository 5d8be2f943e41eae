package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/oemcatalog/internal/assert"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	"github.com/smallbiznis/oemcatalog/internal/config"
	oemdomain "github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"github.com/smallbiznis/oemcatalog/internal/principal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AdminSubject is the token subject of administrator credentials.
const AdminSubject = "admin"

const tokenTypeBearer = "Bearer"

var ErrMissingSecret = errors.New("auth: jwt secret is not configured")

type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"-"`
}

type Service interface {
	IssueAdminToken(ctx context.Context) (*Token, error)
	IssueOEMToken(ctx context.Context, oemNumber string) (*Token, error)
	// Authenticate verifies a raw bearer token and returns its principal.
	Authenticate(ctx context.Context, raw string) (principal.Principal, error)
}

type Params struct {
	fx.In

	Cfg    config.Config
	Log    *zap.Logger
	Clock  clock.Clock
	OEMSvc oemdomain.Service
}

type service struct {
	log      *zap.Logger
	clock    clock.Clock
	jwt      *JWTManager
	oemSvc   oemdomain.Service
	adminTTL time.Duration
	oemTTL   time.Duration
}

func New(p Params) (Service, error) {
	if strings.TrimSpace(p.Cfg.Auth.JWTSecret) == "" {
		return nil, ErrMissingSecret
	}
	return &service{
		log:      p.Log.Named("auth.service"),
		clock:    p.Clock,
		jwt:      NewJWTManager(JWTConfig{Secret: p.Cfg.Auth.JWTSecret, Issuer: p.Cfg.Auth.Issuer}, p.Clock),
		oemSvc:   p.OEMSvc,
		adminTTL: p.Cfg.Auth.AdminTokenTTL,
		oemTTL:   p.Cfg.Auth.OEMTokenTTL,
	}, nil
}

func (s *service) IssueAdminToken(ctx context.Context) (*Token, error) {
	token, err := s.issue(AdminSubject, []principal.Role{principal.RoleAdmin}, s.adminTTL)
	if err != nil {
		return nil, err
	}
	s.log.Info("admin token issued", zap.Time("expires_at", token.ExpiresAt))
	return token, nil
}

func (s *service) IssueOEMToken(ctx context.Context, oemNumber string) (*Token, error) {
	oemNumber = strings.TrimSpace(oemNumber)
	if err := assert.True(oemNumber != "", assert.Message("oem_number should not be empty")); err != nil {
		return nil, err
	}

	oem, err := s.oemSvc.GetByNumber(ctx, oemNumber)
	if err != nil {
		return nil, err
	}
	if err := assert.True(oem.Status, assert.Err(oemdomain.ErrInactive)); err != nil {
		return nil, err
	}

	token, err := s.issue(oem.ID.String(), []principal.Role{principal.RoleOEM}, s.oemTTL)
	if err != nil {
		return nil, err
	}
	s.log.Info("oem token issued",
		zap.String("oem_id", oem.ID.String()),
		zap.String("oem_number", oem.OEMNumber),
	)
	return token, nil
}

func (s *service) Authenticate(ctx context.Context, raw string) (principal.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return principal.Principal{}, ErrInvalidToken
	}

	claims, err := s.jwt.Validate(raw)
	if err != nil {
		return principal.Principal{}, err
	}

	roles := make([]principal.Role, 0, len(claims.Roles))
	for _, name := range claims.Roles {
		role, ok := principal.ParseRole(name)
		if !ok {
			return principal.Principal{}, ErrInvalidToken
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return principal.Principal{}, ErrInvalidToken
	}

	p := principal.Principal{Roles: roles}
	if claims.Subject == AdminSubject {
		if !p.IsAdmin() {
			return principal.Principal{}, ErrInvalidToken
		}
		return p, nil
	}

	id, err := snowflake.ParseString(claims.Subject)
	if err != nil || id == 0 {
		return principal.Principal{}, ErrInvalidToken
	}
	p.ID = id
	return p, nil
}

func (s *service) issue(subject string, roles []principal.Role, ttl time.Duration) (*Token, error) {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	signed, expiresAt, err := s.jwt.Generate(subject, names, ttl)
	if err != nil {
		return nil, err
	}
	return &Token{
		AccessToken: signed,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(ttl / time.Second),
		ExpiresAt:   expiresAt,
	}, nil
}
