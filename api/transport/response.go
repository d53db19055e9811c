package transport

import (
	"encoding/json"

	"github.com/fastygo/focusflow/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// Events reports what a mutation triggered besides its direct result.
type Events struct {
	Completed  []domain.TaskCompletedEvent       `json:"completed,omitempty"`
	RolledOver *domain.DayRolledOverEvent        `json:"rolledOver,omitempty"`
	Unlocked   []domain.AchievementUnlockedEvent `json:"unlocked,omitempty"`
}

// Empty reports whether no event was triggered.
func (e Events) Empty() bool {
	return len(e.Completed) == 0 && e.RolledOver == nil && len(e.Unlocked) == 0
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, message string, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  message,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
