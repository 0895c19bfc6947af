package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sandeepkv93/habitd/internal/backup"
	"github.com/sandeepkv93/habitd/internal/metrics"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"go.uber.org/zap"
)

const maxImportBytes = 10 << 20

// Store persists tracker snapshots.
type Store interface {
	Load(ctx context.Context) (tracker.Snapshot, bool, error)
	Save(ctx context.Context, snap tracker.Snapshot) error
}

// Handler serialises every request through one mutex since the tracker is
// single-owner.
type Handler struct {
	mu      sync.Mutex
	tracker *tracker.Tracker
	store   Store
	metrics *metrics.Collector
	logger  *zap.Logger
}

func NewHandler(t *tracker.Tracker, store Store, m *metrics.Collector, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{tracker: t, store: store, metrics: m, logger: logger}
	if m != nil {
		m.Bind(h.withTracker)
	}
	return h
}

// withTracker runs fn under the request mutex; metrics scrapes use it.
func (h *Handler) withTracker(fn func(t *tracker.Tracker)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.tracker)
}

// Reload replaces the in-memory state with what the store holds. It is
// called when another process rewrote the database. The lock is held across
// Load so a mutation cannot be saved between the read and the Replace.
func (h *Handler) Reload(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	snap, _, err := h.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload state: %w", err)
	}
	h.tracker.Replace(snap)
	h.logger.Info("state reloaded", zap.Int("habits", len(snap.Habits)))
	return nil
}

// mutate applies fn and persists the result. A failed save restores the
// previous state.
func (h *Handler) mutate(ctx context.Context, op string, fn func() error) error {
	before := h.tracker.Snapshot()
	if err := fn(); err != nil {
		return err
	}
	if err := h.store.Save(ctx, h.tracker.Snapshot()); err != nil {
		h.tracker.Replace(before)
		return fmt.Errorf("save state: %w", err)
	}
	if h.metrics != nil {
		h.metrics.RecordMutation(op)
	}
	h.logger.Debug("state mutated", zap.String("op", op))
	return nil
}

func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.tracker.HabitStats())
}

func (h *Handler) GetHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	defer h.mu.Unlock()
	stats, ok := h.tracker.StatsFor(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Habit not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req HabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	var created model.Habit
	err := h.mutate(r.Context(), "create", func() error {
		var addErr error
		created, addErr = h.tracker.AddHabit(req.habit(""))
		return addErr
	})
	if err != nil {
		h.writeMutationError(w, "Failed to create habit", err)
		return
	}
	stats, _ := h.tracker.StatsFor(created.ID)
	writeJSON(w, http.StatusCreated, stats)
}

func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req HabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	err := h.mutate(r.Context(), "update", func() error {
		_, updateErr := h.tracker.UpdateHabit(req.habit(id))
		return updateErr
	})
	if err != nil {
		h.writeMutationError(w, "Failed to update habit", err)
		return
	}
	stats, _ := h.tracker.StatsFor(id)
	writeJSON(w, http.StatusOK, stats)
}

// DeleteHabit answers 204 for unknown ids without saving anything.
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.tracker.Habit(id); !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	err := h.mutate(r.Context(), "delete", func() error {
		h.tracker.DeleteHabit(id)
		return nil
	})
	if err != nil {
		h.writeMutationError(w, "Failed to delete habit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.mu.Lock()
	defer h.mu.Unlock()
	var done bool
	err := h.mutate(r.Context(), "toggle", func() error {
		var toggleErr error
		done, toggleErr = h.tracker.Toggle(id)
		return toggleErr
	})
	if err != nil {
		h.writeMutationError(w, "Failed to toggle habit", err)
		return
	}
	writeJSON(w, http.StatusOK, ToggleResponse{HabitID: id, Date: h.tracker.TodayKey(), Completed: done})
}

func (h *Handler) MarkAll(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var marked int
	err := h.mutate(r.Context(), "mark_all", func() error {
		marked = h.tracker.MarkAllDue()
		return nil
	})
	if err != nil {
		h.writeMutationError(w, "Failed to mark habits", err)
		return
	}
	writeJSON(w, http.StatusOK, MarkAllResponse{Date: h.tracker.TodayKey(), Marked: marked})
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	due := make([]tracker.HabitStats, 0)
	for _, s := range h.tracker.HabitStats() {
		if s.DueToday {
			due = append(due, s)
		}
	}
	writeJSON(w, http.StatusOK, TodayResponse{
		Date:     h.tracker.TodayKey(),
		Progress: h.tracker.TodayProgress(),
		Habits:   due,
		Recent:   h.tracker.RecentActivity(),
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.tracker.Summary())
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid month (1-12)", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, CalendarResponse{
		Year:  year,
		Month: month,
		Days:  h.tracker.CalendarMonth(year, time.Month(month)),
	})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snap := h.tracker.Snapshot()
	now := h.tracker.Now()
	h.mu.Unlock()

	payload, err := backup.Export(snap, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Import validates the uploaded backup. Without ?confirm=true nothing is
// changed and the response only reports what would be imported.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	payload, err := backup.Validate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid file format", err)
		return
	}
	resp := ImportResponse{Habits: len(payload.Habits), CompletionDates: len(payload.Completions)}
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirm {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	err = h.mutate(r.Context(), "import", func() error {
		h.tracker.Replace(payload.Snapshot())
		return nil
	})
	if err != nil {
		h.writeMutationError(w, "Failed to import", err)
		return
	}
	resp.Applied = true
	h.logger.Info("backup imported", zap.Int("habits", resp.Habits), zap.Int("dates", resp.CompletionDates))
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, tracker.ErrHabitNotFound):
		writeError(w, http.StatusNotFound, "Habit not found", err)
	case errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrInvalidFrequency),
		errors.Is(err, model.ErrInvalidWeekday),
		errors.Is(err, model.ErrCustomDaysRequired):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	default:
		h.logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
