package utils

import (
	"context"
	"testing"

	"github.com/iov-one/heirloom"
	"github.com/iov-one/heirloom/errors"
	"github.com/iov-one/heirloom/heirloomtest"
	"github.com/iov-one/heirloom/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    heirloom.Decorator
		handler heirloom.Handler
		check   bool
		wantErr *errors.Error

		written [][]byte
		missing [][]byte
	}{
		"savepoint on deliver discards failed writes": {
			save:    NewSavepoint().OnDeliver(),
			handler: &writeHandler{key: nk, value: nv, err: errors.ErrState},
			wantErr: errors.ErrState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on deliver keeps successful writes": {
			save:    NewSavepoint().OnDeliver(),
			handler: &writeHandler{key: nk, value: nv},
			written: [][]byte{ok, nk},
		},
		"savepoint on check only does not protect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: &writeHandler{key: nk, value: nv, err: errors.ErrState},
			wantErr: errors.ErrState,
			written: [][]byte{ok, nk},
		},
		"savepoint on check discards failed check writes": {
			save:    NewSavepoint().OnCheck(),
			handler: &writeHandler{key: nk, value: nv, err: errors.ErrState},
			check:   true,
			wantErr: errors.ErrState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%X", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%X", k)
			}
		})
	}
}

func TestActionTagger(t *testing.T) {
	h := &heirloomtest.Handler{
		DeliverResult: heirloom.DeliverResult{
			Events: []heirloom.Event{heirloom.NewEvent("deadman_check_in")},
		},
	}
	tx := &heirloomtest.Tx{Msg: &heirloomtest.Msg{RoutePath: "deadman/check_in"}}

	res, err := NewActionTagger().Deliver(context.Background(), store.MemStore(), tx, h)
	require.NoError(t, err)
	require.Len(t, res.Events, 2)
	assert.Equal(t, ActionEvent, res.Events[0].Type)
	assert.Equal(t, "deadman/check_in", res.Events[0].Attr(ActionKey))
	assert.Equal(t, "deadman_check_in", res.Events[1].Type)

	failing := &heirloomtest.Handler{DeliverErr: errors.ErrUnauthorized}
	_, err = NewActionTagger().Deliver(context.Background(), store.MemStore(), tx, failing)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

// writeHandler writes the key value pair and returns the error afterwards.
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

func (h *writeHandler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &heirloom.CheckResult{}, nil
}

func (h *writeHandler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &heirloom.DeliverResult{}, nil
}
