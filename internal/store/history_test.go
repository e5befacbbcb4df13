package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/reflex/internal/clock"
	"github.com/verte-zerg/reflex/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestHistory(t *testing.T, kv KV) (*History, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.UnixMilli(1_700_000_000_000))
	h := NewHistory(kv, zaptest.NewLogger(t).Sugar(), WithClock(clk), WithIDs(sequentialIDs()))
	return h, clk
}

func TestHistoryAppendAssignsIDAndTimestamp(t *testing.T) {
	h, clk := newTestHistory(t, NewMemory())

	got := h.Append(model.NewResult{
		Type:     model.ClickSpeed,
		Score:    4.6,
		Duration: 5,
		Details:  map[string]float64{model.DetailClicks: 23},
	})

	require.Equal(t, "id-1", got.ID)
	require.Equal(t, clk.Now().UnixMilli(), got.Timestamp)
	require.Equal(t, model.ClickSpeed, got.Type)
	require.Equal(t, 23.0, got.Details[model.DetailClicks])
	require.Equal(t, []model.TestResult{got}, h.All())
}

func TestHistoryNewestFirstAndCapped(t *testing.T) {
	kv := NewMemory()
	h, clk := newTestHistory(t, kv)

	for i := 0; i < MaxResults+1; i++ {
		h.Append(model.NewResult{Type: model.SpacebarSpeed, Score: float64(i)})
		clk.Advance(time.Second)
	}

	all := h.All()
	require.Len(t, all, MaxResults)
	require.Equal(t, "id-51", all[0].ID)
	require.Equal(t, "id-2", all[len(all)-1].ID)
	for i := 1; i < len(all); i++ {
		require.GreaterOrEqual(t, all[i-1].Timestamp, all[i].Timestamp)
	}
	for _, r := range all {
		require.NotEqual(t, "id-1", r.ID)
	}

	reloaded := NewHistory(kv, zaptest.NewLogger(t).Sugar())
	require.Equal(t, all, reloaded.All())
}

func TestHistoryClear(t *testing.T) {
	kv := NewMemory()
	h, _ := newTestHistory(t, kv)
	h.Append(model.NewResult{Type: model.TypingSpeed, Score: 55})

	h.Clear()

	require.Empty(t, h.All())
	_, ok, err := kv.Get(context.Background(), HistoryKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHistoryCorruptDataReadsEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":  "{{{",
		"not array": `{"id":"x"}`,
		"null":      "null",
	} {
		t.Run(name, func(t *testing.T) {
			kv := NewMemory()
			require.NoError(t, kv.Set(context.Background(), HistoryKey, raw))
			h, _ := newTestHistory(t, kv)
			require.Empty(t, h.All())

			h.Append(model.NewResult{Type: model.ReactionTime, Score: 210})
			require.Len(t, h.All(), 1)
		})
	}
}

func TestHistorySkipsMalformedRecords(t *testing.T) {
	kv := NewMemory()
	raw := `[
		{"id":"a","type":"cps","score":7.2,"duration":5,"timestamp":3},
		{"id":"b","type":"juggling","score":1,"duration":5,"timestamp":2},
		"garbage",
		{"id":"","type":"cps","score":1,"duration":5,"timestamp":2},
		{"id":"c","type":"cps","score":-1,"duration":5,"timestamp":2},
		{"id":"d","type":"reaction","score":"fast","duration":0,"timestamp":2},
		{"id":"e","type":"typing","score":61,"duration":60,"timestamp":1,"details":{"accuracy":97}}
	]`
	require.NoError(t, kv.Set(context.Background(), HistoryKey, raw))

	core, logs := observer.New(zapcore.DebugLevel)
	h := NewHistory(kv, zap.New(core).Sugar())

	all := h.All()
	require.Len(t, all, 2)
	require.Equal(t, "a", all[0].ID)
	require.Equal(t, "e", all[1].ID)
	require.Equal(t, 97.0, all[1].Details[model.DetailAccuracy])
	skipped := logs.FilterMessage("skipped malformed history records").All()
	require.Len(t, skipped, 1)
	require.Equal(t, zapcore.DebugLevel, skipped[0].Level)
	require.EqualValues(t, 5, skipped[0].ContextMap()["count"])
}

type failingKV struct {
	*Memory
	failGet bool
	failSet bool
}

var errMedium = errors.New("medium unavailable")

func (f *failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errMedium
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return errMedium
	}
	return f.Memory.Set(ctx, key, value)
}

func TestHistoryWriteFailureIsLoggedNotRaised(t *testing.T) {
	kv := &failingKV{Memory: NewMemory(), failSet: true}
	core, logs := observer.New(zapcore.WarnLevel)
	h := NewHistory(kv, zap.New(core).Sugar(), WithIDs(sequentialIDs()))

	got := h.Append(model.NewResult{Type: model.ClickSpeed, Score: 9.1, Duration: 10})

	require.Equal(t, "id-1", got.ID)
	require.Equal(t, []model.TestResult{got}, h.All())
	entries := logs.FilterMessage("failed to persist result history").All()
	require.Len(t, entries, 1)
	require.Equal(t, errMedium.Error(), entries[0].ContextMap()["error"])
}

func TestHistoryReadFailureStartsEmpty(t *testing.T) {
	kv := &failingKV{Memory: NewMemory(), failGet: true}
	require.NoError(t, kv.Memory.Set(context.Background(), HistoryKey, `[{"id":"a","type":"cps","score":1,"duration":1,"timestamp":1}]`))
	core, logs := observer.New(zapcore.WarnLevel)

	h := NewHistory(kv, zap.New(core).Sugar())

	require.Empty(t, h.All())
	require.Equal(t, 1, logs.FilterMessage("failed to read result history").Len())
}

func TestHistoryAllReturnsCopy(t *testing.T) {
	h, _ := newTestHistory(t, NewMemory())
	h.Append(model.NewResult{Type: model.ClickSpeed, Score: 3})

	all := h.All()
	all[0].Score = 99

	require.Equal(t, 3.0, h.All()[0].Score)
}
