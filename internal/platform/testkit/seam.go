package testkit

import (
	"sync"
	"testing"
)

// seamMu serializes tests that touch process state: package level seams, env, the root logger
var seamMu sync.Mutex

// Swap replaces *target for the duration of the test
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}

// Serial holds the process wide lock until the test ends
func Serial(t *testing.T) {
	t.Helper()
	seamMu.Lock()
	t.Cleanup(seamMu.Unlock)
}

// Env takes the Serial lock and sets every key for the duration of the test
// an empty value clears a key the outer environment may have set
func Env(t *testing.T, kv map[string]string) {
	t.Helper()
	Serial(t)
	for k, v := range kv {
		t.Setenv(k, v)
	}
}
