package journal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donyusuf12/namada/network"
	"github.com/donyusuf12/namada/submit"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "sub", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestPutGet(t *testing.T) {
	j := openTestJournal(t)

	rec := &Record{Kind: "transfer", Hash: "ABCD", Mode: "broadcast", Confirmed: true, Height: "9"}
	require.NoError(t, j.Put(rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Time.IsZero())

	got, err := j.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABCD", got.Hash)
	assert.Equal(t, "9", got.Height)
	assert.True(t, got.Confirmed)
	assert.True(t, rec.Time.Equal(got.Time))

	_, err = j.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, j.Put(nil), ErrNilParam)
}

func TestListNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	for _, h := range []string{"A", "B", "C"} {
		require.NoError(t, j.Put(&Record{Hash: h}))
	}

	all, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].Hash)
	assert.Equal(t, "A", all[2].Hash)

	two, err := j.List(2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "B", two[1].Hash)
}

func TestNewRecord(t *testing.T) {
	res := &submit.Result{
		Hash: "FF",
		Mode: submit.Broadcast,
		Ack:  &network.BroadcastResult{Code: 0},
		Event: &network.Event{Events: map[string][]string{
			"tx.hash": {"FF"}, "tx.height": {"12"},
		}},
	}
	rec := NewRecord("custom", "tcp://127.0.0.1:26657", res, nil)
	assert.Equal(t, "broadcast", rec.Mode)
	assert.True(t, rec.Confirmed)
	assert.Equal(t, "12", rec.Height)
	assert.Empty(t, rec.Error)

	failed := &submit.Result{Hash: "EE", Mode: submit.Broadcast,
		Ack: &network.BroadcastResult{Code: 4, Log: "rejected"}}
	err := &submit.StageError{Stage: submit.StageBroadcast, Err: network.ErrBroadcastRejected}
	rec = NewRecord("transfer", "tcp://127.0.0.1:26657", failed, err)
	assert.Equal(t, uint32(4), rec.Code)
	assert.Equal(t, "rejected", rec.Log)
	assert.Equal(t, "broadcast", rec.Stage)
	assert.False(t, rec.Confirmed)

	rec = NewRecord("update", "x", nil, errors.New("boom"))
	assert.Equal(t, "boom", rec.Error)
	assert.Empty(t, rec.Stage)

	dry := &submit.Result{Hash: "DD", Mode: submit.DryRun, DryRun: &network.DryRunResult{Code: 1, Log: "bad sig"}}
	rec = NewRecord("custom", "x", dry, nil)
	assert.Equal(t, "dry-run", rec.Mode)
	assert.Equal(t, uint32(1), rec.Code)
}
