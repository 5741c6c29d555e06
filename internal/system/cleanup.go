package system

import (
	"errors"
	"fmt"
)

// CleanupStack collects undo steps for a multi-step operation and runs them
// in reverse order (LIFO) if the operation fails part way.
type CleanupStack struct {
	cleanups []func() error
}

// NewCleanupStack creates an empty cleanup stack
func NewCleanupStack() *CleanupStack {
	return &CleanupStack{}
}

// Add pushes an undo step
func (s *CleanupStack) Add(cleanup func() error) {
	s.cleanups = append(s.cleanups, cleanup)
}

// Execute runs all undo steps, newest first, and joins their errors.
func (s *CleanupStack) Execute() error {
	var errs []error
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		if err := s.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.cleanups = nil

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %w", errors.Join(errs...))
	}
	return nil
}

// Clear drops all undo steps. Call it once the operation has succeeded.
func (s *CleanupStack) Clear() {
	s.cleanups = nil
}
