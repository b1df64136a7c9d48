package member

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AJFrosty/YouWee/internal/domain"
)

var thresholds = []int{500, 1000, 1500, 2000}

type storePaths struct {
	members string
	history string
}

func tempPaths(t *testing.T) storePaths {
	t.Helper()
	dir := t.TempDir()
	return storePaths{
		members: filepath.Join(dir, "MEMBERS.txt"),
		history: filepath.Join(dir, "PURCHASE_HISTORY.txt"),
	}
}

func setupStore(t *testing.T, paths storePaths) *FileStore {
	t.Helper()
	store, err := NewFileStore(paths.members, paths.history, thresholds, zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestFileStore_StartsEmptyWithoutFiles(t *testing.T) {
	store := setupStore(t, tempPaths(t))
	assert.Empty(t, store.List())
}

func TestRegister_GeneratesSequencedIDs(t *testing.T) {
	store := setupStore(t, tempPaths(t))

	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "AL00001", id)

	// A different member sharing the AL initials gets the next sequence.
	id, err = store.Register("Alice Lang", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "AL00002", id)

	id, err = store.Register("Bob Reed", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, "BR00001", id)
}

func TestRegister_NewMemberStartsAsApprentice(t *testing.T) {
	store := setupStore(t, tempPaths(t))

	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	m, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Points)
	assert.Equal(t, domain.Apprentice, m.Tier)
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	store := setupStore(t, tempPaths(t))

	_, err := store.Register("Ann", "ann@example.com")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Register("Ann Lee", "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	assert.Empty(t, store.List())
}

func TestRegister_RejectsDuplicate(t *testing.T) {
	store := setupStore(t, tempPaths(t))

	_, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	_, err = store.Register("Ann Lee", "ann@example.com")
	assert.ErrorIs(t, err, ErrMemberExists)

	// Same name with a different email is a different person.
	_, err = store.Register("Ann Lee", "other@example.com")
	require.NoError(t, err)
}

func TestSave_ReconcilesTierFromPoints(t *testing.T) {
	paths := tempPaths(t)
	require.NoError(t, os.WriteFile(paths.members,
		[]byte("JD00001:John Doe:jd@example.com:999:Expert\n"), 0o644))

	store := setupStore(t, paths)
	require.NoError(t, store.Save())

	// 999 points sit below the 1000 boundary, so the stored Expert tier is
	// rewritten to Explorer.
	data, err := os.ReadFile(paths.members)
	require.NoError(t, err)
	assert.Equal(t, "JD00001:John Doe:jd@example.com:999:Explorer\n", string(data))

	tier, err := store.Tier("JD00001")
	require.NoError(t, err)
	assert.Equal(t, domain.Explorer, tier)
}

func TestAddPoints_PersistsAndPromotes(t *testing.T) {
	paths := tempPaths(t)
	store := setupStore(t, paths)

	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, store.AddPoints(id, 600))

	reloaded := setupStore(t, paths)
	m, err := reloaded.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 600, m.Points)
	assert.Equal(t, domain.Explorer, m.Tier)
}

func TestAddPoints_FlooredAtZero(t *testing.T) {
	store := setupStore(t, tempPaths(t))
	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, store.AddPoints(id, 200))
	require.NoError(t, store.AddPoints(id, -1000))

	m, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Points)
}

func TestAddPoints_UnknownMember(t *testing.T) {
	store := setupStore(t, tempPaths(t))
	assert.ErrorIs(t, store.AddPoints("ZZ00001", 10), ErrMemberNotFound)
}

func TestAppendHistory_MergesByDate(t *testing.T) {
	paths := tempPaths(t)
	store := setupStore(t, paths)
	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, store.AppendHistory(id, "2026-08-28", map[string]int{"KIT001": 2}))
	require.NoError(t, store.AppendHistory(id, "2026-08-28", map[string]int{"KIT001": 1, "TEC001": 3}))

	hist := store.History(id)
	assert.Equal(t, 3, hist["2026-08-28"]["KIT001"])
	assert.Equal(t, 3, hist["2026-08-28"]["TEC001"])

	// Reloading merges the appended lines the same way.
	reloaded := setupStore(t, paths)
	hist = reloaded.History(id)
	assert.Equal(t, 3, hist["2026-08-28"]["KIT001"])
	assert.Equal(t, 3, hist["2026-08-28"]["TEC001"])
}

func TestAppendHistory_UnknownMember(t *testing.T) {
	store := setupStore(t, tempPaths(t))
	err := store.AppendHistory("ZZ00001", "2026-08-28", map[string]int{"KIT001": 1})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestHistory_EmptyForUnknownMember(t *testing.T) {
	store := setupStore(t, tempPaths(t))
	assert.Empty(t, store.History("ZZ00001"))
}

func TestHistoryFileFormat(t *testing.T) {
	paths := tempPaths(t)
	store := setupStore(t, paths)
	id, err := store.Register("Ann Lee", "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, store.AppendHistory(id, "2026-08-28", map[string]int{"TEC001": 3, "KIT001": 2}))

	data, err := os.ReadFile(paths.history)
	require.NoError(t, err)
	assert.Equal(t, "AL00001:2026-08-28:(KIT001,2):(TEC001,3)\n", string(data))
}

func TestLoadHistory_ParsesExistingFile(t *testing.T) {
	paths := tempPaths(t)
	require.NoError(t, os.WriteFile(paths.members,
		[]byte("AL00001:Ann Lee:ann@example.com:0:Apprentice\n"), 0o644))
	require.NoError(t, os.WriteFile(paths.history,
		[]byte("AL00001:2026-08-01:(KIT001,2):(TEC001,1)\nAL00001:2026-08-01:(KIT001,1)\n"), 0o644))

	store := setupStore(t, paths)
	hist := store.History("AL00001")
	assert.Equal(t, 3, hist["2026-08-01"]["KIT001"])
	assert.Equal(t, 1, hist["2026-08-01"]["TEC001"])
}

func TestLoadMembers_MalformedLine(t *testing.T) {
	paths := tempPaths(t)
	require.NoError(t, os.WriteFile(paths.members,
		[]byte("AL00001:Ann Lee:ann@example.com:abc:Apprentice\n"), 0o644))

	_, err := NewFileStore(paths.members, paths.history, thresholds, zap.NewNop())
	assert.Error(t, err)
}
