package testsupport

import (
	"context"
	"testing"

	"cinematch/internal/config"
	"cinematch/internal/ledger"
)

// MustOpenLedger opens the build ledger for cfg and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.LedgerPath())
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
