package auth

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	assertpkg "github.com/smallbiznis/oemcatalog/internal/assert"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	"github.com/smallbiznis/oemcatalog/internal/config"
	oemdomain "github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"github.com/smallbiznis/oemcatalog/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOEMService struct {
	oems map[string]*oemdomain.OEM
}

func (s *stubOEMService) GetByID(_ context.Context, id snowflake.ID) (*oemdomain.OEM, error) {
	for _, oem := range s.oems {
		if oem.ID == id {
			return oem, nil
		}
	}
	return nil, oemdomain.ErrNotFound
}

func (s *stubOEMService) GetByNumber(_ context.Context, oemNumber string) (*oemdomain.OEM, error) {
	if oem, ok := s.oems[oemNumber]; ok {
		return oem, nil
	}
	return nil, oemdomain.ErrNotFound
}

func newTestService(t *testing.T, clk clock.Clock) Service {
	t.Helper()
	cfg := config.Config{}
	cfg.Auth = config.AuthConfig{
		JWTSecret:     "test-secret",
		Issuer:        "oemcatalog",
		AdminTokenTTL: 10 * 365 * 24 * time.Hour,
		OEMTokenTTL:   12 * time.Hour,
	}
	svc, err := New(Params{
		Cfg:   cfg,
		Log:   zap.NewNop(),
		Clock: clk,
		OEMSvc: &stubOEMService{oems: map[string]*oemdomain.OEM{
			"ACM-123": {ID: 1, OEMNumber: "ACM-123", Name: "Acme Corporation", Status: true},
			"OLD-001": {ID: 3, OEMNumber: "OLD-001", Name: "Retired", Status: false},
		}},
	})
	require.NoError(t, err)
	return svc
}

func TestIssueAdminToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)
	ctx := context.Background()

	token, err := svc.IssueAdminToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.EqualValues(t, 10*365*24*3600, token.ExpiresIn)

	p, err := svc.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
	assert.False(t, p.HasRole(principal.RoleOEM))

	clk.Advance(9 * 365 * 24 * time.Hour)
	_, err = svc.Authenticate(ctx, token.AccessToken)
	assert.NoError(t, err)
}

func TestIssueOEMToken(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)
	ctx := context.Background()

	token, err := svc.IssueOEMToken(ctx, " ACM-123 ")
	require.NoError(t, err)

	p, err := svc.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.ID)
	assert.Equal(t, []principal.Role{principal.RoleOEM}, p.Roles)

	clk.Advance(13 * time.Hour)
	_, err = svc.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = svc.IssueOEMToken(ctx, "GLX-999")
	assert.ErrorIs(t, err, oemdomain.ErrNotFound)

	_, err = svc.IssueOEMToken(ctx, "OLD-001")
	assert.ErrorIs(t, err, oemdomain.ErrInactive)

	_, err = svc.IssueOEMToken(ctx, "  ")
	assert.ErrorIs(t, err, assertpkg.ErrBadRequest)
}

func TestAuthenticateRejectsUnknownRoles(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)
	m := NewJWTManager(JWTConfig{Secret: "test-secret", Issuer: "oemcatalog"}, clk)
	ctx := context.Background()

	cases := []struct {
		name    string
		subject string
		roles   []string
	}{
		{"unknown role", "1", []string{"SUPERUSER"}},
		{"no roles", "1", nil},
		{"admin subject without admin role", AdminSubject, []string{"OEM"}},
		{"non numeric subject", "acme", []string{"OEM"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, _, err := m.Generate(tc.subject, tc.roles, time.Hour)
			require.NoError(t, err)
			_, err = svc.Authenticate(ctx, raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Params{Cfg: config.Config{}, Log: zap.NewNop(), Clock: clock.SystemClock{}})
	assert.ErrorIs(t, err, ErrMissingSecret)
}
