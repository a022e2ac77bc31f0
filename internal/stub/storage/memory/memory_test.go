package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
)

const seedJSON = `{
	"Run": [
		{"id": "1", "name": "Morning", "points": 10},
		{"Id": 2, "name": "Evening", "points": 7}
	],
	"user": [
		{"id": "u1", "userName": "kd"}
	]
}`

func TestStore_LoadAndRead(t *testing.T) {
	t.Parallel()

	s := New()
	n, err := s.Load(strings.NewReader(seedJSON))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	ctx := context.Background()

	runs, err := s.All(ctx, "run")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	d, err := s.ByID(ctx, "RUN", "2")
	require.NoError(t, err)
	require.Equal(t, "Evening", d["name"])

	points, ok := d.Field("points")
	require.True(t, ok)
	require.Equal(t, json.Number("7"), points)

	users, err := s.All(ctx, "User")
	require.NoError(t, err)
	require.Len(t, users, 1)

	empty, err := s.All(ctx, "Video")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestStore_LoadRejectsDocumentWithoutID(t *testing.T) {
	t.Parallel()

	_, err := New().Load(strings.NewReader(`{"Run":[{"name":"no id"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing id")
}

func TestStore_LoadFile(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(p, []byte(seedJSON), 0o600))

	n, err := New().LoadFile(p)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = New().LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	require.NoError(t, s.Insert(ctx, "Game", models.Document{"id": "g1", "status": "scheduled"}))
	require.ErrorIs(t, s.Insert(ctx, "game", models.Document{"id": "g1"}), storage.ErrConflict)

	require.NoError(t, s.Replace(ctx, "Game", models.Document{"id": "g1", "status": "final"}))
	require.ErrorIs(t, s.Replace(ctx, "Game", models.Document{"id": "g2"}), storage.ErrNotFound)

	d, err := s.ByID(ctx, "Game", "g1")
	require.NoError(t, err)
	require.Equal(t, "final", d["status"])

	// Возвращается копия.
	d["status"] = "mutated"
	again, err := s.ByID(ctx, "Game", "g1")
	require.NoError(t, err)
	require.Equal(t, "final", again["status"])

	require.NoError(t, s.Delete(ctx, "Game", "g1"))
	require.ErrorIs(t, s.Delete(ctx, "Game", "g1"), storage.ErrNotFound)

	_, err = s.ByID(ctx, "Game", "g1")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().All(ctx, "Run")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := strings.Repeat("x", i+1)
			if err := s.Insert(ctx, "Post", models.Document{"id": id}); err != nil {
				t.Error(err)
			}
			if _, err := s.All(ctx, "Post"); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	all, err := s.All(ctx, "Post")
	require.NoError(t, err)
	require.Len(t, all, 50)
}
