package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/focusflow/domain"
)

var validate = validator.New()

// TaskRequest creates a task. A zero total duration makes a simple task.
type TaskRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	Hours   int    `json:"hours" validate:"min=0,max=99"`
	Minutes int    `json:"minutes" validate:"min=0,max=59"`
	Seconds int    `json:"seconds" validate:"min=0,max=59"`
}

type ProfileRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Icon string `json:"icon" validate:"max=8"`
}

// NewDayRequest forces a rollover of the given size.
type NewDayRequest struct {
	DaysPassed int `json:"daysPassed" validate:"required,min=1"`
}

// Decode unmarshals body into dst and runs its validation tags. Failures are
// reported as INVALID domain errors.
func Decode(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return domain.NewError(domain.ErrCodeInvalid, describe(fieldErrs))
		}
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}
	return nil
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return "invalid payload: " + strings.Join(parts, ", ")
}
