package stepcache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := &Record{
		SessionID: "sess-1",
		StepName:  "sentence-variety",
		Result:    json.RawMessage(`{"risk_score":42}`),
		Status:    StatusCompleted,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, "sess-1", "sentence-variety")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.SessionID, got.SessionID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.JSONEq(t, `{"risk_score":42}`, string(got.Result))
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Load(context.Background(), "nope", "nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreWholeRecordReplace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := &Record{SessionID: "s", StepName: "step", Result: json.RawMessage(`{"v":1}`), Status: StatusPending}
	require.NoError(t, store.Save(ctx, first))

	second := &Record{SessionID: "s", StepName: "step", Result: json.RawMessage(`{"v":2}`), Status: StatusCompleted}
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Load(ctx, "s", "step")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `{"v":2}`, string(got.Result))
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &Record{SessionID: "a", StepName: "step", Status: StatusCompleted}))

	got, err := store.Load(ctx, "b", "step")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "dp:step:sess:lexical-diversity", recordKey("sess", "lexical-diversity"))
}
