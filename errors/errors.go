package errors

import "fmt"

var (
	ErrWorkerPanic    = fmt.Errorf("worker panic")
	ErrEmptyWords     = fmt.Errorf("no words have been found")
	ErrCooldownActive = fmt.Errorf("cooldown active")
	ErrEmptyMessage   = fmt.Errorf("message content is empty")
	ErrMessageTooLong = fmt.Errorf("message content exceeds the maximum length")
)

// CooldownError reports how many ticks a sender still has to wait before the
// board accepts another submission from them. It wraps ErrCooldownActive so
// callers can classify the failure with errors.Is without losing the
// remaining wait.
type CooldownError struct {
	Remaining uint64
}

func (e CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, wait %d more ticks", e.Remaining)
}

func (e CooldownError) Unwrap() error {
	return ErrCooldownActive
}
