package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/focusflow/domain"
)

type stateRepository struct {
	store       RecordStore
	profileName string
	logger      *zap.Logger
	now         func() time.Time
}

type reconcileRecord struct {
	At      int64 `json:"at"`
	CarryMs int64 `json:"carryMs,omitempty"`
}

// NewStateRepository decodes and encodes the tracker state over a RecordStore.
// Malformed records fall back to their defaults one by one.
func NewStateRepository(store RecordStore, profileName string, logger *zap.Logger) StateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &stateRepository{
		store:       store,
		profileName: profileName,
		logger:      logger,
		now:         time.Now,
	}
}

func (r *stateRepository) Load(ctx context.Context) (*domain.State, error) {
	state := domain.NewState(r.profileName)
	now := r.now()

	raw, err := r.get(ctx, KeyTasks)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		state.Tasks = r.decodeTasks(raw, now)
	}

	counters := []struct {
		key string
		dst *int
	}{
		{KeyTotalTime, &state.Counters.TotalSecondsSpent},
		{KeyLifetimeCompleted, &state.Counters.LifetimeTasksCompleted},
		{KeyDailyCompleted, &state.Counters.DailyTasksCompleted},
	}
	for _, c := range counters {
		raw, err := r.get(ctx, c.key)
		if err != nil {
			return nil, err
		}
		if raw != nil {
			*c.dst = r.decodeCounter(c.key, raw)
		}
	}
	state.Counters = state.Counters.Sanitize()

	if raw, err = r.get(ctx, KeyAchievements); err != nil {
		return nil, err
	}
	if raw != nil {
		var earned domain.UnlockMap
		if err := json.Unmarshal(raw, &earned); err != nil {
			r.malformed(KeyAchievements, err)
		} else if earned != nil {
			state.Achievements = earned
		}
	}

	if raw, err = r.get(ctx, KeyUser); err != nil {
		return nil, err
	}
	if raw != nil {
		profile := state.Profile
		if err := json.Unmarshal(raw, &profile); err != nil {
			r.malformed(KeyUser, err)
		} else {
			state.Profile = profile.Sanitize()
		}
	}

	if raw, err = r.get(ctx, KeyLastDate); err != nil {
		return nil, err
	}
	state.LastProcessedDate = strings.Trim(strings.TrimSpace(string(raw)), `"`)

	if raw, err = r.get(ctx, KeyLastReconcile); err != nil {
		return nil, err
	}
	if raw != nil {
		var rec reconcileRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.At <= 0 {
			r.malformed(KeyLastReconcile, err)
		} else {
			state.LastReconciledAt = time.UnixMilli(rec.At)
			state.FocusCarry = time.Duration(rec.CarryMs) * time.Millisecond
		}
	}

	return &state, nil
}

func (r *stateRepository) Save(ctx context.Context, state *domain.State) error {
	if state == nil {
		return domain.ErrInvalidPayload
	}
	tasks := state.Tasks
	if tasks == nil {
		tasks = []domain.Task{}
	}
	tasksRaw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	earned := state.Achievements
	if earned == nil {
		earned = domain.UnlockMap{}
	}
	earnedRaw, err := json.Marshal(earned)
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}
	userRaw, err := json.Marshal(state.Profile)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	records := map[string][]byte{
		KeyTasks:             tasksRaw,
		KeyTotalTime:         []byte(strconv.Itoa(state.Counters.TotalSecondsSpent)),
		KeyLifetimeCompleted: []byte(strconv.Itoa(state.Counters.LifetimeTasksCompleted)),
		KeyDailyCompleted:    []byte(strconv.Itoa(state.Counters.DailyTasksCompleted)),
		KeyAchievements:      earnedRaw,
		KeyUser:              userRaw,
		KeyLastDate:          []byte(state.LastProcessedDate),
	}
	if !state.LastReconciledAt.IsZero() {
		rec, err := json.Marshal(reconcileRecord{
			At:      state.LastReconciledAt.UnixMilli(),
			CarryMs: state.FocusCarry.Milliseconds(),
		})
		if err != nil {
			return fmt.Errorf("encode reconcile marker: %w", err)
		}
		records[KeyLastReconcile] = rec
	}

	if err := r.store.PutAll(ctx, records); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (r *stateRepository) get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.store.Get(ctx, key)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

func (r *stateRepository) decodeTasks(raw []byte, now time.Time) []domain.Task {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		r.malformed(KeyTasks, err)
		return []domain.Task{}
	}
	tasks := make([]domain.Task, 0, len(items))
	for i, item := range items {
		var task domain.Task
		if err := json.Unmarshal(item, &task); err != nil {
			r.logger.Warn("dropping malformed task record", zap.Int("index", i), zap.Error(err))
			continue
		}
		tasks = append(tasks, task.Normalize(now))
	}
	return tasks
}

func (r *stateRepository) decodeCounter(key string, raw []byte) int {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if v, err := strconv.Atoi(text); err == nil {
		return max(v, 0)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 0 && f < math.MaxInt32 {
		return int(f)
	}
	r.malformed(key, fmt.Errorf("not a number: %q", text))
	return 0
}

func (r *stateRepository) malformed(key string, err error) {
	r.logger.Warn("malformed record, using default", zap.String("key", key), zap.Error(err))
}
