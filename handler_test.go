package heirloom

import (
	"testing"

	"github.com/iov-one/heirloom/errors"
)

func TestOptionsReadOptions(t *testing.T) {
	type conf struct {
		Interval int64  `json:"interval"`
		Name     string `json:"name"`
	}

	opts := Options{
		"good":  []byte(`{"interval": 86400, "name": "alice"}`),
		"wrong": []byte(`{"interval": "a day"}`),
		"junk":  []byte(`{{`),
	}

	var c conf
	if err := opts.ReadOptions("good", &c); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if c.Interval != 86400 || c.Name != "alice" {
		t.Fatalf("unexpected result: %+v", c)
	}

	var missing conf
	if err := opts.ReadOptions("missing", &missing); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if missing != (conf{}) {
		t.Fatalf("missing key must not modify the destination: %+v", missing)
	}

	for _, key := range []string{"wrong", "junk"} {
		if err := opts.ReadOptions(key, &c); !errors.ErrInput.Is(err) {
			t.Fatalf("%s: unexpected error: %v", key, err)
		}
	}
}

type recordingInit struct {
	name  string
	calls *[]string
	err   error
}

func (r recordingInit) FromGenesis(Options, KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	init := ChainInitializers(
		recordingInit{name: "wallet", calls: &calls},
		recordingInit{name: "deadman", calls: &calls},
		recordingInit{name: "freeze", calls: &calls},
	)
	if err := init.FromGenesis(Options{}, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := []string{"wallet", "deadman", "freeze"}; !equalStrings(want, calls) {
		t.Fatalf("want %v calls, got %v", want, calls)
	}

	calls = nil
	init = ChainInitializers(
		recordingInit{name: "wallet", calls: &calls},
		recordingInit{name: "deadman", calls: &calls, err: errors.ErrModel},
		recordingInit{name: "freeze", calls: &calls},
	)
	if err := init.FromGenesis(Options{}, nil); !errors.ErrModel.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"wallet", "deadman"}; !equalStrings(want, calls) {
		t.Fatalf("initialization must stop at first failure, got %v", calls)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
