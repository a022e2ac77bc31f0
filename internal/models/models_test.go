package models

import (
	"reflect"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestTime_UnmarshalFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2025-03-01T18:30:00Z"`, want: time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{in: `"2025-03-01T20:30:00+02:00"`, want: time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{in: `"2025-03-01T18:30:00"`, want: time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{in: `"2025-03-01T18:30:00.1234567"`, want: time.Date(2025, 3, 1, 18, 30, 0, 123456700, time.UTC)},
		{in: `"2025-03-01"`, want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{in: `null`},
		{in: `""`},
	}

	for _, tt := range tests {
		var got Time
		require.NoError(t, json.Unmarshal([]byte(tt.in), &got), tt.in)
		require.True(t, tt.want.Equal(got.Time), "%s: got %v", tt.in, got.Time)
	}

	var bad Time
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestTime_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewTime(time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.JSONEq(t, `"2025-03-01T18:30:00Z"`, string(b))

	b, err = json.Marshal(Time{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))
}

func TestRun_DecodeIsCaseInsensitiveAndTolerant(t *testing.T) {
	t.Parallel()

	const payload = `{
		"Id": "42",
		"Name": "Friday Night Run",
		"POINTS": 17,
		"runDate": "2025-03-07T19:00:00",
		"IsPublic": true,
		"Unknown": {"nested": [1, 2, 3]}
	}`

	var r Run
	require.NoError(t, Decode([]byte(payload), &r))
	require.Equal(t, "42", r.ID)
	require.Equal(t, "Friday Night Run", r.Name)
	require.Equal(t, 17, r.Points)
	require.True(t, r.IsPublic)
	require.Equal(t, 2025, r.RunDate.Year())
}

func TestDecode_EveryDTOIgnoresKeyCase(t *testing.T) {
	t.Parallel()

	dtos := map[string]func() any{
		"Run":          func() any { return &Run{} },
		"RunSummary":   func() any { return &RunSummary{} },
		"Game":         func() any { return &Game{} },
		"User":         func() any { return &User{} },
		"UserSummary":  func() any { return &UserSummary{} },
		"Product":      func() any { return &Product{} },
		"Video":        func() any { return &Video{} },
		"Post":         func() any { return &Post{} },
		"Request":      func() any { return &Request{} },
		"Subscription": func() any { return &Subscription{} },
		"PrivateRun":   func() any { return &PrivateRun{} },
		"JoinedRun":    func() any { return &JoinedRun{} },
		"Client":       func() any { return &Client{} },
		"Report":       func() any { return &Report{} },
	}
	payloads := []string{
		`{"Id":"42","CreatedDate":"2025-03-07T19:00:00"}`,
		`{"id":"42","createdDate":"2025-03-07T19:00:00"}`,
		`{"ID":"42","CREATEDDATE":"2025-03-07T19:00:00","EXTRA":[1]}`,
	}

	for name, newDTO := range dtos {
		for _, payload := range payloads {
			v := newDTO()
			require.NoError(t, Decode([]byte(payload), v), "%s %s", name, payload)
			require.Equal(t, "42", reflect.ValueOf(v).Elem().FieldByName("ID").String(), "%s %s", name, payload)
		}
	}
}

func TestCursorPage_Decode(t *testing.T) {
	t.Parallel()

	var p CursorPage[RunSummary]
	require.NoError(t, Decode([]byte(`{"Items":[{"id":"1","points":3}],"NextCursor":"abc","previousCursor":null,"HasMore":true}`), &p))
	require.Len(t, p.Items, 1)
	require.NotNil(t, p.NextCursor)
	require.Equal(t, "abc", *p.NextCursor)
	require.Nil(t, p.PreviousCursor)
	require.True(t, p.HasMore)
}

func TestDocument_Fields(t *testing.T) {
	t.Parallel()

	d := Document{"Id": json.Number("7"), "userName": "kd"}

	v, ok := d.Field("USERNAME")
	require.True(t, ok)
	require.Equal(t, "kd", v)
	require.Equal(t, "7", d.ID())

	d.Set("username", "kevin")
	require.Equal(t, "kevin", d["userName"])
	require.Len(t, d, 2)

	c := d.Clone()
	c.Set("id", "8")
	require.Equal(t, "7", d.ID())
	require.Equal(t, "8", c.ID())

	require.Equal(t, "12", Document{"id": 12.0}.ID())
	require.Empty(t, Document{}.ID())
}

func TestCatalog_Definitions(t *testing.T) {
	t.Parallel()

	defs := Catalog()
	require.Len(t, defs, 12)

	seen := map[string]bool{}
	for _, d := range defs {
		require.False(t, seen[d.Name], "duplicate %s", d.Name)
		seen[d.Name] = true

		s, err := d.ParseSort("")
		require.NoError(t, err, d.Name)
		require.Equal(t, d.DefaultSort, s.Field, d.Name)

		_, err = d.ParseSort("id")
		require.NoError(t, err, "%s must allow Id sort", d.Name)
	}

	run, ok := Lookup("run")
	require.True(t, ok)
	s, err := run.ParseSort("points")
	require.NoError(t, err)
	require.Equal(t, "Points", s.Field)
	require.True(t, s.Desc)

	_, ok = Lookup("Stadium")
	require.False(t, ok)
	require.Panics(t, func() { MustLookup("Stadium") })
}

func TestRoutes_DefaultAndMerge(t *testing.T) {
	t.Parallel()

	r := DefaultRoutes("Run")
	require.Equal(t, Routes{
		List:       "/api/Run/GetRuns",
		ByID:       "/api/Run/GetRunById",
		WithCursor: "/api/Run/GetRunsWithCursor",
		Create:     "/api/Run/CreateRun",
		Update:     "/api/Run/UpdateRun",
		Delete:     "/api/Run/DeleteRun",
	}, r)

	m := r.Merge(Routes{List: "/v2/runs"})
	require.Equal(t, "/v2/runs", m.List)
	require.Equal(t, r.ByID, m.ByID)
}
