package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/courtside/internal/config"
	"github.com/pribylovaa/courtside/internal/models"
	"github.com/pribylovaa/courtside/internal/stub/storage"
	"github.com/pribylovaa/courtside/mocks"
)

// Файл unit-тестов для сервисного слоя stub-бэкенда.
//
// Покрываем:
//  - ListPage: нормализация limit, валидация direction/sortBy,
//    маппинг невалидного курсора, пустую коллекцию, сценарий 45 ранов;
//  - ByID/Update/Delete: маппинг storage.ErrNotFound -> ErrNotFound;
//  - Create: серверный Id, запрет клиентского Id, обязательные поля, createdDate.

var runDef = models.MustLookup(models.ResourceRun)

// newSvcForTest — фабрика Service с контролируемыми лимитами и мок-хранилищем.
func newSvcForTest(t *testing.T, repo storage.Repository) *Service {
	t.Helper()

	svc := New(repo, config.LimitsConfig{Default: 20, Max: 100})
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func makeRunDocs(n int) []models.Document {
	out := make([]models.Document, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Document{
			"id":      strconv.Itoa(i),
			"name":    "run " + strconv.Itoa(i),
			"points":  float64(i % 9),
			"runDate": time.Date(2025, 1, i%28+1, 18, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05"),
		})
	}
	return out
}

func TestListPage_NormalizesLimit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), "Run").Return(makeRunDocs(150), nil).Times(2)

	svc := newSvcForTest(t, repo)

	page, err := svc.ListPage(context.Background(), runDef, PageQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 20, "limit 0 -> default")

	page, err = svc.ListPage(context.Background(), runDef, PageQuery{Limit: 500})
	require.NoError(t, err)
	require.Len(t, page.Items, 100, "limit above max is clamped")
}

func TestListPage_InvalidArguments_NoStorageCall(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Вызовов хранилища быть не должно.
	repo := mocks.NewMockRepository(ctrl)
	svc := newSvcForTest(t, repo)

	tests := []PageQuery{
		{Limit: -1},
		{Direction: "sideways"},
		{SortBy: "Rating"},
		{SortBy: "Points:up"},
	}

	for _, q := range tests {
		_, err := svc.ListPage(context.Background(), runDef, q)
		require.ErrorIs(t, err, ErrInvalidArgument, "%+v", q)
	}
}

func TestListPage_PreviousWithoutCursor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Запрос отклоняется до обращения к хранилищу.
	repo := mocks.NewMockRepository(ctrl)
	svc := newSvcForTest(t, repo)

	_, err := svc.ListPage(context.Background(), runDef, PageQuery{Direction: "previous"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestListPage_InvalidCursor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), gomock.Any()).Return(makeRunDocs(3), nil)

	svc := newSvcForTest(t, repo)

	_, err := svc.ListPage(context.Background(), runDef, PageQuery{Cursor: "garbage!"})
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestListPage_EmptyCollection(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), gomock.Any()).Return([]models.Document{}, nil)

	svc := newSvcForTest(t, repo)

	page, err := svc.ListPage(context.Background(), runDef, PageQuery{SortBy: "Points"})
	require.NoError(t, err)
	require.NotNil(t, page.Items)
	require.Empty(t, page.Items)
	require.Nil(t, page.NextCursor)
	require.Nil(t, page.PreviousCursor)
	require.False(t, page.HasMore)
}

func TestListPage_StorageErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("boom")
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), gomock.Any()).Return(nil, boom)

	svc := newSvcForTest(t, repo)

	_, err := svc.ListPage(context.Background(), runDef, PageQuery{})
	require.ErrorIs(t, err, boom)
}

func TestListPage_Scenario45RunsByPoints(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	docs := makeRunDocs(45)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), "Run").Return(docs, nil).Times(3)

	svc := newSvcForTest(t, repo)
	ctx := context.Background()

	p1, err := svc.ListPage(ctx, runDef, PageQuery{Limit: 20, Direction: "next", SortBy: "Points"})
	require.NoError(t, err)
	require.Len(t, p1.Items, 20)
	require.NotNil(t, p1.NextCursor)
	require.Nil(t, p1.PreviousCursor)
	require.True(t, p1.HasMore)

	p2, err := svc.ListPage(ctx, runDef, PageQuery{Cursor: *p1.NextCursor, Limit: 20, Direction: "next", SortBy: "Points"})
	require.NoError(t, err)
	require.Len(t, p2.Items, 20)
	require.True(t, p2.HasMore)

	p3, err := svc.ListPage(ctx, runDef, PageQuery{Cursor: *p2.NextCursor, Limit: 20, Direction: "next", SortBy: "Points"})
	require.NoError(t, err)
	require.Len(t, p3.Items, 5)
	require.Nil(t, p3.NextCursor)
	require.False(t, p3.HasMore)

	var all []models.Document
	all = append(all, p1.Items...)
	all = append(all, p2.Items...)
	all = append(all, p3.Items...)
	require.Len(t, all, 45)

	seen := map[string]bool{}
	for i, d := range all {
		require.False(t, seen[d.ID()], "duplicate id %s", d.ID())
		seen[d.ID()] = true

		if i == 0 {
			continue
		}
		prevPts := all[i-1]["points"].(float64)
		curPts := d["points"].(float64)
		require.GreaterOrEqual(t, prevPts, curPts)
		if prevPts == curPts {
			a, _ := strconv.Atoi(all[i-1].ID())
			b, _ := strconv.Atoi(d.ID())
			require.Less(t, a, b, "tie-break by Id ascending")
		}
	}
}

func TestList_SortedByDefaultField(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().All(gomock.Any(), "Run").Return([]models.Document{
		{"id": "1", "runDate": "2025-01-01T10:00:00Z"},
		{"id": "2", "runDate": "2025-03-01"},
		{"id": "3", "runDate": "2025-02-01T10:00:00.5Z"},
	}, nil)

	svc := newSvcForTest(t, repo)

	docs, err := svc.List(context.Background(), runDef)
	require.NoError(t, err)

	// RunDate по умолчанию по убыванию; форматы дат сравниваются хронологически.
	ids := []string{docs[0].ID(), docs[1].ID(), docs[2].ID()}
	require.Equal(t, []string{"2", "3", "1"}, ids)
}

func TestByID_NotFoundMapped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().ByID(gomock.Any(), "Run", "404").Return(nil, storage.ErrNotFound)

	svc := newSvcForTest(t, repo)

	_, err := svc.ByID(context.Background(), runDef, "404")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ByID(context.Background(), runDef, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreate_AssignsIDAndCreatedDate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().
		Insert(gomock.Any(), "Run", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, doc models.Document) error {
			require.NotEmpty(t, doc.ID())
			require.Equal(t, "2025-03-01T12:00:00Z", doc["createdDate"])
			return nil
		})

	svc := newSvcForTest(t, repo)

	in := models.Document{"name": "Sunday", "runDate": "2025-03-02"}
	out, err := svc.Create(context.Background(), runDef, in)
	require.NoError(t, err)
	require.Len(t, out.ID(), 36)
	require.Empty(t, in.ID(), "input document must not be mutated")
}

func TestCreate_ValidationErrors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Невалидная запись в хранилище не попадает.
	repo := mocks.NewMockRepository(ctrl)
	svc := newSvcForTest(t, repo)

	_, err := svc.Create(context.Background(), runDef, models.Document{"id": "client-made", "name": "  "})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "id")
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "runDate")

	_, err = svc.Create(context.Background(), runDef, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreate_ConflictMapped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.ErrConflict)

	svc := newSvcForTest(t, repo)

	_, err := svc.Create(context.Background(), runDef, models.Document{"name": "x", "runDate": "2025-03-02"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().Replace(gomock.Any(), "Run", gomock.Any()).Return(nil),
		repo.EXPECT().Replace(gomock.Any(), "Run", gomock.Any()).Return(storage.ErrNotFound),
	)

	svc := newSvcForTest(t, repo)
	doc := models.Document{"id": "1", "name": "x", "runDate": "2025-03-02"}

	require.NoError(t, svc.Update(context.Background(), runDef, doc))
	require.ErrorIs(t, svc.Update(context.Background(), runDef, doc), ErrNotFound)
	require.ErrorIs(t, svc.Update(context.Background(), runDef, models.Document{"name": "x", "runDate": "2025-03-02"}), ErrValidation)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().Delete(gomock.Any(), "Run", "1").Return(nil),
		repo.EXPECT().Delete(gomock.Any(), "Run", "1").Return(storage.ErrNotFound),
	)

	svc := newSvcForTest(t, repo)

	require.NoError(t, svc.Delete(context.Background(), runDef, "1"))
	require.ErrorIs(t, svc.Delete(context.Background(), runDef, "1"), ErrNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), runDef, ""), ErrInvalidArgument)
}
