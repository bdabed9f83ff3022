package journal_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/randalmurphal/njector/pkg/njector"
	"github.com/randalmurphal/njector/pkg/njector/config"
	"github.com/randalmurphal/njector/pkg/njector/event"
	"github.com/randalmurphal/njector/pkg/njector/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type database struct{ key string }

func (d *database) Key() string { return d.key }

func TestRecorder_RecordsAddAndRemove(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	rec := journal.Attach(inj, store, nil)
	defer rec.Detach()

	require.NoError(t, inj.Add(&database{key: "db"}))
	require.NoError(t, inj.Add(&database{key: "cache"}))
	_, err := inj.Remove("db")
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, event.ServiceAdded, entries[0].Kind)
	assert.Equal(t, "db", entries[0].Key)
	assert.Equal(t, "*journal_test.database", entries[0].ServiceType)
	assert.NotEmpty(t, entries[0].EventID)
	assert.False(t, entries[0].Timestamp.IsZero())

	assert.Equal(t, "cache", entries[1].Key)

	assert.Equal(t, event.ServiceRemoved, entries[2].Kind)
	assert.Equal(t, "db", entries[2].Key)
	assert.Empty(t, entries[2].ServiceType)

	assert.NotEqual(t, entries[0].EventID, entries[1].EventID)
	assert.Empty(t, rec.Errors())
}

func TestRecorder_FailedOperationsNotRecorded(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "db"}))
	require.Error(t, inj.Add(&database{key: "db"}))
	_, err := inj.Remove("missing")
	require.Error(t, err)
	_, err = inj.Get("db")
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
}

func TestRecorder_Detach(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	rec := journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "db"}))
	rec.Detach()
	rec.Detach()
	require.NoError(t, inj.Add(&database{key: "cache"}))

	assert.Equal(t, 1, store.Len())
}

func TestRecorder_AppendFailureDoesNotFailRegistry(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	require.NoError(t, store.Close())
	rec := journal.Attach(inj, store, logger)

	require.NoError(t, inj.Add(&database{key: "db"}))
	assert.True(t, inj.Has("db"))

	errs := rec.Errors()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], journal.ErrStoreClosed)
	assert.Contains(t, buf.String(), "journal append failed")
	assert.Contains(t, buf.String(), `"service_key":"db"`)
}

func TestActive(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "db"}))
	require.NoError(t, inj.Add(&database{key: "cache"}))
	require.NoError(t, inj.Add(&database{key: "queue"}))
	_, err := inj.Remove("db")
	require.NoError(t, err)
	require.NoError(t, inj.Add(&database{key: "db"}))

	keys, err := journal.Active(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache", "queue", "db"}, keys)
}

func TestRecorder_TagsRunAndRevision(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	rec := journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "db"}))
	_, err := inj.Remove("db")
	require.NoError(t, err)

	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for i, e := range entries {
		assert.Equal(t, rec.RunID(), e.RunID)
		assert.Equal(t, uint64(i+1), e.Revision)
	}
	assert.Equal(t, inj.Revision(), entries[1].Revision)
}

func TestActive_RemoveInsideAddHandler(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	inj.OnServiceAdded(func(s njector.Service) {
		if s.Key() == "temp" {
			_, _ = inj.Remove("temp")
		}
	})
	store := journal.NewMemoryStore()
	journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "temp"}))
	require.False(t, inj.Has("temp"))

	// The nested removal is appended before the add that triggered it
	entries, err := store.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, event.ServiceRemoved, entries[0].Kind)
	assert.Equal(t, event.ServiceAdded, entries[1].Kind)
	assert.True(t, entries[0].After(entries[1]))

	keys, err := journal.Active(store)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestActive_AddInsideRemoveHandler(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	inj.OnServiceRemoved(func(key string) {
		if key == "worker" {
			_ = inj.Add(&database{key: "worker"})
		}
	})
	store := journal.NewMemoryStore()
	journal.Attach(inj, store, nil)

	require.NoError(t, inj.Add(&database{key: "worker"}))
	_, err := inj.Remove("worker")
	require.NoError(t, err)
	require.True(t, inj.Has("worker"))

	keys, err := journal.Active(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"worker"}, keys)
}

func TestActive_ConcurrentChangesMatchRegistry(t *testing.T) {
	inj := njector.New(njector.WithLogger(nil))
	store := journal.NewMemoryStore()
	journal.Attach(inj, store, nil)

	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				key := "svc-" + strconv.Itoa(i%3)
				if (w+i)%2 == 0 {
					_ = inj.Add(&database{key: key})
				} else {
					_, _ = inj.Remove(key)
				}
			}
		}(w)
	}
	wg.Wait()

	keys, err := journal.Active(store)
	require.NoError(t, err)
	assert.ElementsMatch(t, inj.Keys(), keys)
}

func TestActive_AcrossRuns(t *testing.T) {
	store := journal.NewMemoryStore()

	first := njector.New(njector.WithLogger(nil))
	rec := journal.Attach(first, store, nil)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, first.Add(&database{key: key}))
	}
	rec.Detach()

	// A restarted host starts again at revision 1
	second := njector.New(njector.WithLogger(nil))
	journal.Attach(second, store, nil)
	require.NoError(t, second.Add(&database{key: "c"}))
	_, err := second.Remove("c")
	require.NoError(t, err)

	keys, err := journal.Active(store)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestEntryAfter(t *testing.T) {
	tests := []struct {
		name string
		a, b journal.Entry
		want bool
	}{
		{
			name: "same run uses revision",
			a:    journal.Entry{Sequence: 1, RunID: "r1", Revision: 5},
			b:    journal.Entry{Sequence: 2, RunID: "r1", Revision: 4},
			want: true,
		},
		{
			name: "different runs use sequence",
			a:    journal.Entry{Sequence: 1, RunID: "r1", Revision: 5},
			b:    journal.Entry{Sequence: 2, RunID: "r2", Revision: 1},
			want: false,
		},
		{
			name: "missing revision uses sequence",
			a:    journal.Entry{Sequence: 3, RunID: "r1"},
			b:    journal.Entry{Sequence: 2, RunID: "r1", Revision: 9},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.After(tt.b))
		})
	}
}

func TestActive_Empty(t *testing.T) {
	keys, err := journal.Active(journal.NewMemoryStore())
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestActive_ClosedStore(t *testing.T) {
	store := journal.NewMemoryStore()
	require.NoError(t, store.Close())

	_, err := journal.Active(store)
	assert.ErrorIs(t, err, journal.ErrStoreClosed)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		settings config.JournalSettings
		wantNil  bool
		wantErr  bool
	}{
		{name: "none", settings: config.JournalSettings{Driver: config.JournalNone}, wantNil: true},
		{name: "empty driver", settings: config.JournalSettings{}, wantNil: true},
		{name: "memory", settings: config.JournalSettings{Driver: config.JournalMemory}},
		{name: "sqlite", settings: config.JournalSettings{Driver: config.JournalSQLite, Path: ":memory:"}},
		{name: "sqlite without path", settings: config.JournalSettings{Driver: config.JournalSQLite}, wantErr: true},
		{name: "unknown driver", settings: config.JournalSettings{Driver: "postgres"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := journal.Open(tt.settings)
			if tt.wantErr {
				assert.ErrorIs(t, err, config.ErrInvalidSettings)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, store)
				return
			}
			require.NotNil(t, store)
			assert.NoError(t, store.Close())
		})
	}
}

func TestOpen_SQLiteSurvivesRestart(t *testing.T) {
	settings := config.JournalSettings{
		Driver: config.JournalSQLite,
		Path:   filepath.Join(t.TempDir(), "njector.db"),
	}

	store, err := journal.Open(settings)
	require.NoError(t, err)
	inj := njector.New(njector.WithLogger(nil))
	journal.Attach(inj, store, nil)
	require.NoError(t, inj.Add(&database{key: "db"}))
	require.NoError(t, inj.Add(&database{key: "cache"}))
	_, err = inj.Remove("cache")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := journal.Open(settings)
	require.NoError(t, err)
	defer reopened.Close()

	keys, err := journal.Active(reopened)
	require.NoError(t, err)
	assert.Equal(t, []string{"db"}, keys)
}
