package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

func writeInventory(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "INVENTORY.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func setupStore(t *testing.T, lines string) *FileStore {
	t.Helper()
	store, err := NewFileStore(writeInventory(t, lines), zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestFileStore_Load(t *testing.T) {
	store := setupStore(t,
		"KIT001:Whisk:10.00:5:NOTSEASONAL\n"+
			"TOY001:Kite:29.99:3:SEASONAL\n")

	kit, err := store.Get("KIT001")
	require.NoError(t, err)
	assert.Equal(t, "Whisk", kit.Name)
	assert.Equal(t, "10.00", kit.Price.StringFixed(2))
	assert.Equal(t, 5, kit.Stock)
	assert.False(t, kit.Seasonal)

	toy, err := store.Get("TOY001")
	require.NoError(t, err)
	assert.True(t, toy.Seasonal)

	assert.Len(t, store.List(), 2)
}

func TestFileStore_Load_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "INVENTORY.txt")

	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, store.List())
}

func TestFileStore_Load_SkipsBlankLines(t *testing.T) {
	store := setupStore(t, "\nKIT001:Whisk:10.00:5:NOTSEASONAL\n\n")
	assert.Len(t, store.List(), 1)
}

func TestFileStore_Load_MalformedLine(t *testing.T) {
	_, err := NewFileStore(writeInventory(t, "KIT001:Whisk:10.00\n"), zap.NewNop())
	assert.Error(t, err)

	_, err = NewFileStore(writeInventory(t, "KIT001:Whisk:abc:5:NOTSEASONAL\n"), zap.NewNop())
	assert.Error(t, err)

	_, err = NewFileStore(writeInventory(t, "KIT001:Whisk:10.00:-1:NOTSEASONAL\n"), zap.NewNop())
	assert.ErrorIs(t, err, ErrNegativeStock)
}

func TestFileStore_Get_NotFound(t *testing.T) {
	store := setupStore(t, "")

	_, err := store.Get("GON001")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.False(t, store.Exists("GON001"))
}

func TestFileStore_InStock(t *testing.T) {
	store := setupStore(t, "KIT001:Whisk:10.00:5:NOTSEASONAL\n")

	assert.True(t, store.InStock("KIT001", 5))
	assert.False(t, store.InStock("KIT001", 6))
	assert.False(t, store.InStock("GON001", 1))
}

func TestFileStore_SetStock_PersistsAndRejectsNegative(t *testing.T) {
	path := writeInventory(t, "KIT001:Whisk:10.00:5:NOTSEASONAL\n")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	assert.ErrorIs(t, store.SetStock("KIT001", -1), ErrNegativeStock)
	assert.ErrorIs(t, store.SetStock("GON001", 3), ErrItemNotFound)

	require.NoError(t, store.SetStock("KIT001", 2))

	reloaded, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	item, err := reloaded.Get("KIT001")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Stock)
}

func TestFileStore_UpdateStock_SkipsUnknownIDs(t *testing.T) {
	path := writeInventory(t, "KIT001:Whisk:10.00:5:NOTSEASONAL\n")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.UpdateStock(map[string]int{
		"KIT001": 1,
		"GON001": 7,
	}))

	item, err := store.Get("KIT001")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stock)
	assert.False(t, store.Exists("GON001"))
}

func TestFileStore_AddRemove(t *testing.T) {
	path := writeInventory(t, "")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	kite := domain.Item{ID: "TOY001", Name: "Kite", Price: decimal.NewFromFloat(29.99), Stock: 3, Seasonal: true}
	require.NoError(t, store.Add(kite))
	assert.ErrorIs(t, store.Add(kite), ErrItemExists)

	reloaded, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	got, err := reloaded.Get("TOY001")
	require.NoError(t, err)
	assert.Equal(t, "29.99", got.Price.StringFixed(2))
	assert.True(t, got.Seasonal)

	require.NoError(t, store.Remove("TOY001"))
	assert.ErrorIs(t, store.Remove("TOY001"), ErrItemNotFound)
}

func TestFileStore_SetSeasonal(t *testing.T) {
	path := writeInventory(t, "KIT001:Whisk:10.00:5:NOTSEASONAL\n")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.SetSeasonal("KIT001", true))
	assert.ErrorIs(t, store.SetSeasonal("GON001", true), ErrItemNotFound)

	reloaded, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	item, err := reloaded.Get("KIT001")
	require.NoError(t, err)
	assert.True(t, item.Seasonal)
}

func TestFileStore_SaveFormat(t *testing.T) {
	path := writeInventory(t, "")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, store.Add(domain.Item{
		ID: "KIT001", Name: "Whisk", Price: decimal.NewFromFloat(10.5), Stock: 5,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "KIT001:Whisk:10.50:5:NOTSEASONAL\n", string(data))
}
