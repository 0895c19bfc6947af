package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/habitd/internal/metrics"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)

type testServer struct {
	handler *Handler
	router  http.Handler
	store   *storage.StateStore
}

func newTestServer(t *testing.T, snap tracker.Snapshot) testServer {
	t.Helper()
	repo, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	store := storage.NewStateStore(repo)
	require.NoError(t, store.Save(context.Background(), snap))

	tr := tracker.New(snap,
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithLocation(time.UTC))
	h := NewHandler(tr, store, metrics.New(), nil)
	return testServer{handler: h, router: NewRouter(h), store: store}
}

func (s testServer) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHabitCRUD(t *testing.T) {
	srv := newTestServer(t, tracker.Snapshot{})

	rec := srv.do(t, http.MethodPost, "/api/habits", `{"name":"Stretch","category":"health","frequency":"custom","customDays":[5,1,1],"target":"10","unit":"min"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[tracker.HabitStats](t, rec)
	assert.Equal(t, "Stretch", created.Habit.Name)
	assert.Equal(t, []int{1, 5}, created.Habit.CustomDays)
	assert.NotEmpty(t, created.Habit.ID)

	rec = srv.do(t, http.MethodGet, "/api/habits/"+created.Habit.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPut, "/api/habits/"+created.Habit.ID, `{"name":"Stretch more","frequency":"daily"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[tracker.HabitStats](t, rec)
	assert.Equal(t, "Stretch more", updated.Habit.Name)
	assert.Nil(t, updated.Habit.CustomDays)
	assert.True(t, updated.DueToday)

	rec = srv.do(t, http.MethodGet, "/api/habits", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]tracker.HabitStats](t, rec), 1)

	rec = srv.do(t, http.MethodDelete, "/api/habits/"+created.Habit.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodDelete, "/api/habits/"+created.Habit.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code, "deleting an unknown id is a no-op")
	assert.Empty(t, rec.Body.String())

	metricsBody := srv.do(t, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metricsBody, `habitd_mutations_total{op="delete"} 1`)

	snap, found, err := srv.store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, snap.Habits, "deletion persisted")
}

func TestCreateHabitValidation(t *testing.T) {
	srv := newTestServer(t, tracker.Snapshot{})
	cases := []struct {
		body string
		code int
	}{
		{`{"name":"","frequency":"daily"}`, http.StatusUnprocessableEntity},
		{`{"name":"x","frequency":"hourly"}`, http.StatusUnprocessableEntity},
		{`{"name":"x","frequency":"custom"}`, http.StatusUnprocessableEntity},
		{`{"name":"x","frequency":"custom","customDays":[7]}`, http.StatusUnprocessableEntity},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := srv.do(t, http.MethodPost, "/api/habits", tc.body)
		assert.Equal(t, tc.code, rec.Code, tc.body)
	}
	assert.Equal(t, http.StatusNotFound, srv.do(t, http.MethodGet, "/api/habits/ghost", "").Code)
}

func TestToggleMarkAllAndToday(t *testing.T) {
	srv := newTestServer(t, tracker.SampleSnapshot(fixedNow))

	// 2024-01-07 is a Sunday, so the custom exercise habit is not due.
	rec := srv.do(t, http.MethodPost, "/api/mark-all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MarkAllResponse{Date: "2024-01-07", Marked: 2}, decode[MarkAllResponse](t, rec))

	rec = srv.do(t, http.MethodPost, "/api/habits/sample1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ToggleResponse{HabitID: "sample1", Date: "2024-01-07", Completed: false}, decode[ToggleResponse](t, rec))

	rec = srv.do(t, http.MethodPost, "/api/habits/ghost/toggle", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	today := decode[TodayResponse](t, rec)
	assert.Equal(t, tracker.Progress{Due: 2, Completed: 1, Percent: 50}, today.Progress)
	assert.Len(t, today.Habits, 2)
}

func TestStatsAndCalendar(t *testing.T) {
	srv := newTestServer(t, tracker.SampleSnapshot(fixedNow))

	rec := srv.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[tracker.Summary](t, rec)
	assert.Len(t, summary.Monthly, tracker.MonthlyWindow)
	assert.Equal(t, 7, summary.TotalTrackingDays)

	rec = srv.do(t, http.MethodGet, "/api/calendar/2024/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[CalendarResponse](t, rec)
	assert.Len(t, cal.Days, tracker.CalendarCells)
	assert.Equal(t, "2023-12-31", cal.Days[0].Date)

	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/calendar/2024/13", "").Code)
	assert.Equal(t, http.StatusBadRequest, srv.do(t, http.MethodGet, "/api/calendar/abc/1", "").Code)
}

func TestExportImportFlow(t *testing.T) {
	srv := newTestServer(t, tracker.SampleSnapshot(fixedNow))

	rec := srv.do(t, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "habit-tracker-data-2024-01-07.json")
	exported := rec.Body.String()

	empty := newTestServer(t, tracker.Snapshot{})

	rec = empty.do(t, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[ImportResponse](t, rec)
	assert.Equal(t, ImportResponse{Habits: 3, CompletionDates: 7, Applied: false}, preview)
	assert.Len(t, decode[[]tracker.HabitStats](t, empty.do(t, http.MethodGet, "/api/habits", "")), 0, "validation alone must not mutate")

	rec = empty.do(t, http.MethodPost, "/api/import?confirm=true", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[ImportResponse](t, rec).Applied)
	assert.Len(t, decode[[]tracker.HabitStats](t, empty.do(t, http.MethodGet, "/api/habits", "")), 3)

	rec = empty.do(t, http.MethodPost, "/api/import?confirm=true", `{"habits": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[[]tracker.HabitStats](t, empty.do(t, http.MethodGet, "/api/habits", "")), 3, "rejected import leaves state")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, tracker.SampleSnapshot(fixedNow))
	srv.do(t, http.MethodPost, "/api/mark-all", "")

	rec := srv.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "habitd_habits_total 3")
	assert.Contains(t, body, `habitd_mutations_total{op="mark_all"} 1`)
	assert.True(t, strings.Contains(body, `habitd_habit_current_streak{habit_id="sample1"`))
}

type failingStore struct{}

func (failingStore) Load(context.Context) (tracker.Snapshot, bool, error) {
	return tracker.Snapshot{}, false, errors.New("disk gone")
}

func (failingStore) Save(context.Context, tracker.Snapshot) error {
	return errors.New("disk gone")
}

func TestFailedSaveRollsBack(t *testing.T) {
	tr := tracker.New(tracker.SampleSnapshot(fixedNow),
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithLocation(time.UTC))
	h := NewHandler(tr, failingStore{}, nil, nil)
	router := NewRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/api/habits/sample1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Len(t, tr.Habits(), 3)

	assert.Error(t, h.Reload(context.Background()))
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	srv := newTestServer(t, tracker.Snapshot{})
	require.NoError(t, srv.store.Save(context.Background(), tracker.SampleSnapshot(fixedNow)))
	require.NoError(t, srv.handler.Reload(context.Background()))
	assert.Len(t, decode[[]tracker.HabitStats](t, srv.do(t, http.MethodGet, "/api/habits", "")), 3)
}

// gatedStore reads its snapshot as soon as Load is called and then waits for
// release before returning it.
type gatedStore struct {
	mu      sync.Mutex
	snap    tracker.Snapshot
	started chan struct{}
	release chan struct{}
}

func (s *gatedStore) Load(context.Context) (tracker.Snapshot, bool, error) {
	s.mu.Lock()
	snap := s.snap.Clone()
	s.mu.Unlock()
	close(s.started)
	<-s.release
	return snap, true, nil
}

func (s *gatedStore) Save(_ context.Context, snap tracker.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

func (s *gatedStore) stored() tracker.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

func TestReloadDoesNotLoseConcurrentMutation(t *testing.T) {
	snap := tracker.SampleSnapshot(fixedNow)
	snap.Completions.Set("2024-01-07", "sample2", false)
	store := &gatedStore{snap: snap.Clone(), started: make(chan struct{}), release: make(chan struct{})}
	tr := tracker.New(snap,
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithLocation(time.UTC))
	h := NewHandler(tr, store, nil, nil)
	router := NewRouter(h)

	reloaded := make(chan error, 1)
	go func() { reloaded <- h.Reload(context.Background()) }()
	<-store.started

	toggled := make(chan int, 1)
	go func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/habits/sample2/toggle", nil))
		toggled <- rec.Code
	}()
	select {
	case code := <-toggled:
		t.Fatalf("toggle finished with status %d while reload was reading the store", code)
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-reloaded)
	require.Equal(t, http.StatusOK, <-toggled)

	assert.True(t, tr.IsCompletedToday("sample2"), "in-memory state keeps the toggle")
	assert.True(t, store.stored().Completions.Done("2024-01-07", "sample2"), "stored state keeps the toggle")
}
