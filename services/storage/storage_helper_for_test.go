package storage

import "errors"

var errInjected = errors.New("injected storage failure")

// FailingWrites wraps a Memory and fails every Write.
type FailingWrites struct {
	*Memory
}

func (f FailingWrites) Write(name string, data []byte) error {
	return errInjected
}
