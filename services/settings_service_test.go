package services

import (
	"context"
	"testing"

	"github.com/Debjit29092022/resto-kot-creator/models"
	"github.com/Debjit29092022/resto-kot-creator/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsServiceLazyDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	settings := NewSettingsService(s, nil)

	got, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), *got)

	stored, err := store.GetByID[models.Settings](ctx, s, models.SingletonKey)
	require.NoError(t, err)
	require.NotNil(t, stored, "Defaults are persisted on first read")

	again, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, *got, *again)
}

func TestSettingsServiceUpdate(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsService(newTestStore(t), nil)

	updated, err := settings.Update(ctx, models.Settings{ID: "other", TaxRate: 12.5, PrinterName: "EPSON"})
	require.NoError(t, err)
	assert.Equal(t, models.SingletonKey, updated.ID, "The settings key is fixed")

	got, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.TaxRate)
	assert.Equal(t, "EPSON", got.PrinterName)

	_, err = settings.Update(ctx, models.Settings{TaxRate: 101})
	assert.ErrorIs(t, err, models.ErrInvalidTaxRate)

	got, err = settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.TaxRate, "Rejected updates leave settings untouched")
}
