package seed

import (
	"context"
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/clock"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	oemdomain "github.com/smallbiznis/oemcatalog/internal/oem/domain"
	"github.com/smallbiznis/oemcatalog/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var seedTime = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func TestRunIsIdempotent(t *testing.T) {
	conn := dbtest.New(t,
		&mastercatalogdomain.MasterCatalog{},
		&mastercatalogdomain.MasterProduct{},
		&oemdomain.OEM{},
		&catalogdomain.Catalog{},
	)
	ctx := context.Background()
	clk := clock.NewFakeClock(seedTime)

	require.NoError(t, Run(ctx, conn, clk, zap.NewNop()))
	require.NoError(t, Run(ctx, conn, clk, zap.NewNop()))

	count := func(model any) int64 {
		var n int64
		require.NoError(t, conn.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 1, count(&mastercatalogdomain.MasterCatalog{}))
	assert.EqualValues(t, 3, count(&mastercatalogdomain.MasterProduct{}))
	assert.EqualValues(t, 2, count(&oemdomain.OEM{}))
	assert.EqualValues(t, 4, count(&catalogdomain.Catalog{}))

	var boots mastercatalogdomain.MasterProduct
	require.NoError(t, conn.Where("part_number = ?", "A003").First(&boots).Error)
	assert.Equal(t, "149.99", boots.Price.StringFixed(2))
	assert.Equal(t, MasterCatalogID, boots.MasterCatalogID)
	assert.True(t, boots.CreatedAt.Equal(seedTime), "created_at = %s", boots.CreatedAt)
	assert.True(t, boots.UpdatedAt.Equal(seedTime), "updated_at = %s", boots.UpdatedAt)

	var globexCatalogs int64
	require.NoError(t, conn.Model(&catalogdomain.Catalog{}).Where("oem_id = ?", 2).Count(&globexCatalogs).Error)
	assert.EqualValues(t, 2, globexCatalogs)
}

func TestRunKeepsExistingRows(t *testing.T) {
	conn := dbtest.New(t,
		&mastercatalogdomain.MasterCatalog{},
		&mastercatalogdomain.MasterProduct{},
		&oemdomain.OEM{},
		&catalogdomain.Catalog{},
	)
	ctx := context.Background()
	require.NoError(t, Run(ctx, conn, nil, nil))

	require.NoError(t, conn.Model(&oemdomain.OEM{}).Where("oem_number = ?", "ACM-123").Update("status", false).Error)
	require.NoError(t, Run(ctx, conn, nil, nil))

	var acme oemdomain.OEM
	require.NoError(t, conn.Where("oem_number = ?", "ACM-123").First(&acme).Error)
	assert.False(t, acme.Status)
}

func TestRunRequiresDatabase(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, nil, nil))
}
