package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compras/internal/storage"
	"compras/internal/storage/memory"
)

func TestAccessGate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	gate := NewAccessGate(ctx, store, testKeys.Restricted(), "20262", quietLogger())

	assert.False(t, gate.Restricted())

	require.NoError(t, gate.Lock(ctx))
	assert.True(t, gate.Restricted())
	assert.True(t, storage.Load(ctx, store, testKeys.Restricted(), false))

	assert.ErrorIs(t, gate.Unlock(ctx, "1234"), ErrWrongPasscode)
	assert.ErrorIs(t, gate.Unlock(ctx, ""), ErrWrongPasscode)
	assert.True(t, gate.Restricted())

	require.NoError(t, gate.Unlock(ctx, " 20262 "))
	assert.False(t, gate.Restricted())
}

func TestAccessGateRestoresMode(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, storage.Save(ctx, store, testKeys.Restricted(), true))

	gate := NewAccessGate(ctx, store, testKeys.Restricted(), "20262", quietLogger())
	assert.True(t, gate.Restricted())
}

func TestAccessGateSaveFailure(t *testing.T) {
	ctx := context.Background()
	gate := NewAccessGate(ctx, failingStore{memory.New()}, testKeys.Restricted(), "20262", quietLogger())

	assert.Error(t, gate.Lock(ctx))
	assert.True(t, gate.Restricted())
}
