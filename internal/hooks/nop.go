// Package hooks provides default hook implementations.
package hooks

import (
	"context"

	"github.com/coosto/leader-election-mongo/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default used when no custom hooks are provided, eliminating
// the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements the hook callbacks.
var (
	_ func(context.Context, string) error = (*NopHooks)(nil).OnElected
	_ func(context.Context, string) error = (*NopHooks)(nil).OnCleaned
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnElected: h.OnElected,
		OnCleaned: h.OnCleaned,
	}
}

// OnElected is a no-op implementation.
func (h *NopHooks) OnElected(_ context.Context, _ string) error {
	return nil
}

// OnCleaned is a no-op implementation.
func (h *NopHooks) OnCleaned(_ context.Context, _ string) error {
	return nil
}
