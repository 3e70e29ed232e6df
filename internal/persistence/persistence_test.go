package persistence

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Deadline    string     `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func TestSaveWritesEnvelope(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)
	manager.now = func() time.Time { return time.UnixMilli(1717243200000) }

	require.True(t, manager.Save(ctx, KeyTasks, []int{1, 2}))

	raw, found, err := storage.Get(ctx, KeyTasks)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"data":[1,2],"timestamp":1717243200000,"version":"1.0.0"}`, raw)
}

func TestLoadRoundTripsDates(t *testing.T) {
	ctx := context.Background()
	manager := NewManager(NewMemoryStorage(), 0)

	created := time.Date(2025, 6, 1, 10, 30, 0, 123000000, time.UTC)
	completed := created.Add(time.Hour)
	in := []record{
		{ID: 1717243200000, Title: "Estudar", Deadline: "2025-07-01", CreatedAt: created, CompletedAt: &completed},
		{ID: 1717243200001, Title: "Ler", Deadline: "2025-08-01", CreatedAt: created},
	}
	require.True(t, manager.Save(ctx, KeyProjects, in))

	var out []record
	require.True(t, manager.Load(ctx, KeyProjects, &out))
	require.Len(t, out, 2)
	assert.True(t, out[0].CreatedAt.Equal(created))
	require.NotNil(t, out[0].CompletedAt)
	assert.True(t, out[0].CompletedAt.Equal(completed))
	assert.Nil(t, out[1].CompletedAt)
	assert.Equal(t, "2025-07-01", out[0].Deadline)
	assert.Equal(t, int64(1717243200000), out[0].ID)
}

func TestLoadAcceptsCalendarDateInDateField(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)
	require.NoError(t, storage.Set(ctx, KeyTasks, `{"data":[{"id":1,"createdAt":"2025-06-01"}],"timestamp":0,"version":"1.0.0"}`))

	var out []record
	require.True(t, manager.Load(ctx, KeyTasks, &out))
	require.Len(t, out, 1)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), out[0].CreatedAt)
}

func TestLoadTreeRevivesISOStrings(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)
	require.NoError(t, storage.Set(ctx, KeyProjects, `{"data":{"deadline":"2025-07-01","createdAt":"2025-06-01T10:00:00.000Z","title":"2025 plans","nested":[{"when":"2025-06-01T10:00:00-03:00"}]},"timestamp":0,"version":"1.0.0"}`))

	tree, ok := manager.LoadTree(ctx, KeyProjects)
	require.True(t, ok)
	root := tree.(map[string]any)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), root["deadline"])
	assert.IsType(t, time.Time{}, root["createdAt"])
	assert.Equal(t, "2025 plans", root["title"])

	nested := root["nested"].([]any)[0].(map[string]any)
	when, ok := nested["when"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 13, when.UTC().Hour())
}

func TestLoadDiscardsVersionMismatch(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)
	require.NoError(t, storage.Set(ctx, KeyTasks, `{"data":[],"timestamp":0,"version":"0.9.0"}`))

	var out []record
	assert.False(t, manager.Load(ctx, KeyTasks, &out))

	_, found, err := storage.Get(ctx, KeyTasks)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadAppliesRegisteredMigration(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)
	require.NoError(t, storage.Set(ctx, KeyPomodoroSessions, `{"data":"3","timestamp":0,"version":"0.9.0"}`))

	migrations["0.9.0"] = func(data json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(strings.Trim(string(data), `"`)), nil
	}
	t.Cleanup(func() { delete(migrations, "0.9.0") })

	var sessions int
	require.True(t, manager.Load(ctx, KeyPomodoroSessions, &sessions))
	assert.Equal(t, 3, sessions)
}

func TestLoadAbsentAndCorrupt(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)

	var out []record
	assert.False(t, manager.Load(ctx, KeyTasks, &out))

	require.NoError(t, storage.Set(ctx, KeyTasks, `{not json`))
	assert.False(t, manager.Load(ctx, KeyTasks, &out))

	require.NoError(t, storage.Set(ctx, KeyTasks, `{"data":null,"timestamp":0,"version":"1.0.0"}`))
	assert.False(t, manager.Load(ctx, KeyTasks, &out))
}

func TestLoadFailureLeavesDestinationUntouched(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)

	raw := `{"data":[{"id":1,"title":"ok"},{"id":"two","title":"bad"}],"timestamp":0,"version":"1.0.0"}`
	require.NoError(t, storage.Set(ctx, KeyTasks, raw))

	records := []record{{ID: 7, Title: "kept"}}
	assert.False(t, manager.Load(ctx, KeyTasks, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "kept", records[0].Title)

	assert.False(t, manager.Load(ctx, KeyTasks, records))
}

func TestClearAllRemovesWorkspaceKeysOnly(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 0)

	for _, key := range Keys {
		manager.Save(ctx, key, 1)
	}
	require.NoError(t, storage.Set(ctx, "unrelated", "x"))

	manager.ClearAll(ctx)

	keys, err := storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"unrelated"}, keys)
}

func TestUsageInfo(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	manager := NewManager(storage, 10)

	require.NoError(t, storage.Set(ctx, "a", strings.Repeat("x", 2048)))
	require.NoError(t, storage.Set(ctx, "b", strings.Repeat("y", 1024)))

	info := manager.UsageInfo(ctx)
	assert.Equal(t, 3, info.Used)
	assert.Equal(t, 7, info.Available)
}

func TestParseISODate(t *testing.T) {
	valid := []string{
		"2025-06-01",
		"2025-06-01T10:00:00",
		"2025-06-01T10:00:00Z",
		"2025-06-01T10:00:00.123Z",
		"2025-06-01T10:00:00.123456789-03:00",
	}
	for _, s := range valid {
		_, ok := ParseISODate(s)
		assert.True(t, ok, s)
	}

	invalid := []string{"", "2025", "2025-13-01", "2025-06-01 10:00", "hello", "14:00"}
	for _, s := range invalid {
		_, ok := ParseISODate(s)
		assert.False(t, ok, s)
	}
}
