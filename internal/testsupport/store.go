package testsupport

import (
	"context"
	"testing"

	"mudlark/internal/config"
	"mudlark/internal/logging"
	"mudlark/internal/mappingstore"
)

// MustOpenStore opens the mapping store named by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *mappingstore.Store {
	t.Helper()

	store, err := mappingstore.Open(context.Background(), cfg.Dumps.MappingDBPath, logging.NewNop())
	if err != nil {
		t.Fatalf("open mapping store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
