package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"github.com/smallbiznis/oemcatalog/internal/oem/repository"
	"github.com/smallbiznis/oemcatalog/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetByNumber(t *testing.T) {
	conn := dbtest.New(t, &domain.OEM{})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, conn.Create(&domain.OEM{
		ID: 1, OEMNumber: "ACM-123", Name: "Acme Corporation", Status: true, CreatedAt: now, UpdatedAt: now,
	}).Error)

	svc := New(Params{DB: conn, Log: zap.NewNop(), Repo: repository.Provide()})
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		oem, err := svc.GetByNumber(ctx, " ACM-123 ")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corporation", oem.Name)
		assert.EqualValues(t, 1, oem.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := svc.GetByNumber(ctx, "GLX-456")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank", func(t *testing.T) {
		_, err := svc.GetByNumber(ctx, "  ")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("by id", func(t *testing.T) {
		oem, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ACM-123", oem.OEMNumber)

		_, err = svc.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
