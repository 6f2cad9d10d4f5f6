package packages

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamu/internal/core/id"
	"hamu/internal/core/types"
)

func TestValidateBottleTypeRequiredForSale(t *testing.T) {
	ctx := context.Background()

	p := NewPackage(id.New(), SaleTypeSale, types.NewLiters(1), types.MustMoney("50"))
	require.Error(t, p.Validate(ctx), "sale package needs a bottle type")

	bt := BottleDisposable
	p.BottleType = &bt
	require.NoError(t, p.Validate(ctx))

	bad := BottleType("GLASS")
	p.BottleType = &bad
	require.Error(t, p.Validate(ctx))
}

func TestValidateRefillClearsBottleType(t *testing.T) {
	ctx := context.Background()

	bt := BottleHard
	p := NewPackage(id.New(), SaleTypeRefill, types.NewLiters(20), types.MustMoney("70"))
	p.BottleType = &bt

	require.NoError(t, p.Validate(ctx))
	assert.Nil(t, p.BottleType, "refill packages never carry a bottle type")
}

func TestIsBundle(t *testing.T) {
	bundle := BottleBundle
	p := NewPackage(id.New(), SaleTypeSale, types.NewLiters(12), types.MustMoney("550"))
	p.BottleType = &bundle
	assert.True(t, p.IsBundle())

	disposable := BottleDisposable
	p.BottleType = &disposable
	assert.False(t, p.IsBundle())

	r := NewPackage(id.New(), SaleTypeRefill, types.NewLiters(20), types.MustMoney("70"))
	assert.False(t, r.IsBundle())
}

func TestWaterLiters(t *testing.T) {
	p := NewPackage(id.New(), SaleTypeRefill, types.NewLiters(20), types.MustMoney("70"))
	liters, ok := p.WaterLiters()
	require.True(t, ok)
	assert.Equal(t, 20, liters)

	p.WaterAmount = types.MustLiters("0.5")
	_, ok = p.WaterLiters()
	assert.False(t, ok, "fractional sizes have no whole-liter match")
}
