package board

import (
	"fmt"
	"strings"

	"task-board/internal/model"
)

const minPasswordLength = 6

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	return nil
}

func validateEvent(in model.EventInput) error {
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"deadline", in.Deadline},
		{"time", in.Time},
		{"assignedUserId", in.AssignedUserID},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if in.ReminderInterval < 0 {
		return fmt.Errorf("%w: reminderInterval must be >= 0", ErrValidation)
	}
	return nil
}

// validateEventUpdates rejects blanking a required field.
func validateEventUpdates(updates Updates) error {
	for _, field := range []string{"title", "deadline", "time", "assignedUserId"} {
		v, ok := updates[field]
		if !ok {
			continue
		}
		s, isString := v.(string)
		if !isString {
			return fmt.Errorf("%w: %s must be a string", ErrValidation, field)
		}
		if err := required(field, s); err != nil {
			return err
		}
	}
	return nil
}

func validateUser(in model.UserInput) error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("email", in.Email); err != nil {
		return err
	}
	if err := required("password", in.Password); err != nil {
		return err
	}
	if in.Role != "" && !in.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	return nil
}

func validateRegistration(in model.UserInput) error {
	if err := validateUser(in); err != nil {
		return err
	}
	if len(in.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}

func validateUserUpdates(updates Updates) error {
	for _, field := range []string{"name", "email", "password"} {
		v, ok := updates[field]
		if !ok {
			continue
		}
		if s, isString := v.(string); !isString || strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, field)
		}
	}
	return nil
}
