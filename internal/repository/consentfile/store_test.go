package consentfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/career-suite/internal/domain/entity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "user_consent.json"))
}

func TestStore_Get_MissingFile(t *testing.T) {
	store := newTestStore(t)

	// Отсутствие файла означает отсутствие согласия, а не ошибку
	_, ok := store.Get(entity.ConsentAnalytics)
	assert.False(t, ok, "отсутствующий тип согласия должен давать ok=false")
}

func TestStore_SetGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	recordedAt := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, store.Set(entity.ConsentAnalytics, entity.ConsentStatus{
		Given:      true,
		RecordedAt: recordedAt,
	}))

	status, ok := store.Get(entity.ConsentAnalytics)
	require.True(t, ok)
	assert.True(t, status.Given)
	assert.Equal(t, recordedAt, status.RecordedAt.UTC())
}

func TestStore_Set_OverwritesLatestStatus(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(entity.ConsentAnalytics, entity.ConsentStatus{Given: true, RecordedAt: time.Now()}))
	require.NoError(t, store.Set(entity.ConsentAnalytics, entity.ConsentStatus{Given: false, RecordedAt: time.Now()}))

	status, ok := store.Get(entity.ConsentAnalytics)
	require.True(t, ok)
	assert.False(t, status.Given, "зеркало должно отражать последнее состояние")
}

func TestStore_GetAll_MultipleTypes(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(entity.ConsentDataCollection, entity.ConsentStatus{Given: true, RecordedAt: time.Now()}))
	require.NoError(t, store.Set(entity.ConsentAIProcessing, entity.ConsentStatus{Given: false, RecordedAt: time.Now()}))

	all, err := store.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, all[entity.ConsentDataCollection].Given)
	assert.False(t, all[entity.ConsentAIProcessing].Given)
}

func TestStore_Remove(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(entity.ConsentAnalytics, entity.ConsentStatus{Given: true, RecordedAt: time.Now()}))
	require.NoError(t, store.Remove())

	_, err := os.Stat(store.path)
	assert.True(t, os.IsNotExist(err), "файл должен быть удалён")

	// Повторное удаление отсутствующего файла не должно падать
	require.NoError(t, store.Remove())
}

func TestStore_WriteLeavesNoTempFile(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(entity.ConsentAnalytics, entity.ConsentStatus{Given: true, RecordedAt: time.Now()}))

	_, err := os.Stat(store.path + ".tmp")
	assert.True(t, os.IsNotExist(err), "временный файл должен быть переименован")
}
