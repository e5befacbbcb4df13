package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/reflex/internal/model"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "reflex.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, ok, err := db.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Set(ctx, ConsentKey, "all"))
	require.NoError(t, db.Set(ctx, ConsentKey, "essential"))
	v, ok, err := db.Get(ctx, ConsentKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "essential", v)

	require.NoError(t, db.Delete(ctx, ConsentKey))
	_, ok, err = db.Get(ctx, ConsentKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reflex.db")
	log := zaptest.NewLogger(t).Sugar()

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	h := NewHistory(db, log)
	first := h.Append(model.NewResult{Type: model.ClickSpeed, Score: 6.4, Duration: 5})
	second := h.Append(model.NewResult{Type: model.ReactionTime, Score: 231, Details: map[string]float64{model.DetailAttempt: 1}})
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	reopened := NewHistory(db, log)
	require.Equal(t, []model.TestResult{second, first}, reopened.All())
}

func TestOpenMediumFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	kv := OpenMedium(filepath.Join(blocker, "reflex.db"), zap.New(core).Sugar())

	_, isMemory := kv.(*Memory)
	require.True(t, isMemory)
	require.Equal(t, 1, logs.FilterMessage("result storage unavailable, keeping results in memory").Len())

	h := NewHistory(kv, zap.New(core).Sugar())
	h.Append(model.NewResult{Type: model.TypingSpeed, Score: 42})
	require.Len(t, h.All(), 1)
}
