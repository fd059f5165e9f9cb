package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/persistence/sqlite"
)

// NewSQLitePersistence opens a migrated SQLite database in a per-test directory.
func NewSQLitePersistence(t *testing.T) *sqlite.Persistence {
	t.Helper()

	ctx := context.Background()

	p, err := sqlite.NewPersistence(ctx, NewLogger(), filepath.Join(t.TempDir(), "teleboot.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, p.Close(ctx))
	})

	return p
}

// NewLogger returns a logger that only reports errors.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
