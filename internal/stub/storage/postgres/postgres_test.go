package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
)

// Интеграционные тесты поднимают PostgreSQL через testcontainers-go
// и применяют встроенные миграции через Migrate.
//
// Запуск локально:
//   GO_TEST_INTEGRATION=1 go test ./internal/stub/storage/postgres -v -race -count=1

func startPostgres(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/postgres:16-alpine",
		Env:          map[string]string{"POSTGRES_USER": "user", "POSTGRES_PASSWORD": "pass", "POSTGRES_DB": "db"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://user:pass@%s:%s/db?sslmode=disable", host, port.Port())

	st, err := New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.Migrate(ctx))
	// повторный прогон миграций не падает
	require.NoError(t, st.Migrate(ctx))

	return st
}

func TestNew_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "postgres://%zz")
	require.Error(t, err)
}

func TestDecode_KeepsNumbers(t *testing.T) {
	t.Parallel()

	d, err := decode([]byte(`{"Id": 7, "Points": 12.5, "Name": "pickup"}`))
	require.NoError(t, err)
	require.Equal(t, json.Number("7"), d["Id"])
	require.Equal(t, json.Number("12.5"), d["Points"])
	require.Equal(t, "7", d.ID())

	_, err = decode([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestStore_CRUD(t *testing.T) {
	st := startPostgres(t)
	ctx := context.Background()

	run := models.Document{"Id": json.Number("1"), "Name": "pickup", "Points": json.Number("10")}
	require.NoError(t, st.Insert(ctx, "Run", run))
	require.ErrorIs(t, st.Insert(ctx, "run", run), storage.ErrConflict)
	require.NoError(t, st.Insert(ctx, "Run", models.Document{"Id": json.Number("2"), "Name": "league"}))
	require.NoError(t, st.Insert(ctx, "Game", models.Document{"Id": json.Number("1")}))

	got, err := st.ByID(ctx, "RUN", "1")
	require.NoError(t, err)
	require.Equal(t, "pickup", got["Name"])
	require.Equal(t, json.Number("10"), got["Points"])

	all, err := st.All(ctx, "Run")
	require.NoError(t, err)
	require.Len(t, all, 2)

	empty, err := st.All(ctx, "Video")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	run["Name"] = "renamed"
	require.NoError(t, st.Replace(ctx, "Run", run))
	got, err = st.ByID(ctx, "Run", "1")
	require.NoError(t, err)
	require.Equal(t, "renamed", got["Name"])

	require.ErrorIs(t, st.Replace(ctx, "Run", models.Document{"Id": json.Number("99")}), storage.ErrNotFound)

	require.NoError(t, st.Delete(ctx, "Run", "1"))
	require.ErrorIs(t, st.Delete(ctx, "Run", "1"), storage.ErrNotFound)
	_, err = st.ByID(ctx, "Run", "1")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, err = st.ByID(ctx, "Game", "1")
	require.NoError(t, err)
}

func TestStore_EmptyID(t *testing.T) {
	st := startPostgres(t)

	err := st.Insert(context.Background(), "Run", models.Document{"Name": "x"})
	require.Error(t, err)
}

func TestStore_ContextDeadline(t *testing.T) {
	st := startPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := st.All(ctx, "Run")
	require.Error(t, err)
}
