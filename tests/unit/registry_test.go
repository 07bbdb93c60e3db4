package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/420btc/mymac/internal/service"
	"github.com/420btc/mymac/internal/shared/types"
	"github.com/420btc/mymac/tests/helpers/testutil"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := service.NewRegistry()

	provider := testutil.NewMockServiceProvider(t, "mock")
	require.NoError(t, registry.Register(provider))

	got, ok := registry.Get("mock")
	assert.True(t, ok)
	assert.Equal(t, provider, got)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsEmptyID(t *testing.T) {
	registry := service.NewRegistry()

	provider := new(testutil.MockServiceProvider)
	provider.On("Definition").Return(types.Service{ID: ""})

	assert.Error(t, registry.Register(provider))
}

func TestRegistryListByCategory(t *testing.T) {
	registry := service.NewRegistry()

	require.NoError(t, registry.Register(testutil.NewMockServiceProvider(t, "a")))
	require.NoError(t, registry.Register(testutil.NewMockServiceProvider(t, "b")))

	all := registry.List(nil)
	assert.Len(t, all, 2)

	utility := types.CategoryUtility
	filtered := registry.List(&utility)
	assert.Len(t, filtered, 2)

	web := types.CategoryWeb
	assert.Empty(t, registry.List(&web))
}

func TestRegistryExecuteRoutesByToolID(t *testing.T) {
	registry := service.NewRegistry()

	provider := testutil.NewMockServiceProvider(t, "echo")
	provider.On("Execute", mock.Anything, "echo.test", mock.Anything, mock.Anything).
		Return(&types.Result{Success: true, Data: map[string]interface{}{"ok": true}}, nil)
	require.NoError(t, registry.Register(provider))

	result, err := registry.Execute(context.Background(), "echo.test", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)

	result, err = registry.Execute(context.Background(), "nosuch.tool", map[string]interface{}{}, nil)
	assert.Error(t, err)
	assert.False(t, result.Success)
}

func TestRegistryDiscover(t *testing.T) {
	registry := service.NewRegistry()

	require.NoError(t, registry.Register(testutil.NewMockServiceProvider(t, "files")))

	matches := registry.Discover("test", 10)
	assert.NotEmpty(t, matches)
}
