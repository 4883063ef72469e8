package schedule_store

import "fmt"

// StoreError is returned for any non-2xx answer of the schedule store.
type StoreError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StoreError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("schedule store %s: unexpected status code %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("schedule store %s: unexpected status code %d: %s", e.Operation, e.StatusCode, e.Body)
}
