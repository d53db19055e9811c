package repository

import (
	"context"

	"github.com/fastygo/focusflow/domain"
)

// Record keys. They match the names used by earlier versions of the app so
// existing data stays readable.
const (
	KeyTasks             = "focusflow_tasks"
	KeyTotalTime         = "focusflow_total_time"
	KeyLifetimeCompleted = "focusflow_lifetime_completed"
	KeyDailyCompleted    = "focusflow_daily_completed"
	KeyAchievements      = "focusflow_achievements"
	KeyUser              = "focusflow_user"
	KeyLastDate          = "focusflow_last_date"
	KeyLastReconcile     = "focusflow_last_reconcile"
)

// RecordStore is a load/save capability over named records.
// Get returns domain.ErrRecordNotFound for a missing key.
type RecordStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// PutAll writes every record atomically.
	PutAll(ctx context.Context, records map[string][]byte) error
}

// StoreStats is the store activity reported by the health check.
type StoreStats struct {
	Transactions int `json:"transactions"`
	OpenReadTx   int `json:"openReadTx"`
	FreePages    int `json:"freePages"`
	PendingPages int `json:"pendingPages"`
}

// StateRepository persists the full tracker state.
type StateRepository interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
}
