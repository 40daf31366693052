// Copyright (c) 2025 The Monetarium developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verifiercache

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T, capacity int) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "verifierdb"), capacity)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetMissingIsSoftMiss(t *testing.T) {
	c := openTestCache(t, 8)
	if _, ok := c.Get("devnet", "step"); ok {
		t.Fatal("expected a miss for a never-stored entry")
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	c := openTestCache(t, 8)
	want := []byte{1, 2, 3, 4}
	if err := c.Put("devnet", "step", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get("devnet", "step")
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if string(got) != string(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGetServesFromLevelDBAfterFrontEviction(t *testing.T) {
	c := openTestCache(t, 1)
	if err := c.Put("devnet", "step", []byte{1}); err != nil {
		t.Fatalf("Put step: %v", err)
	}
	if err := c.Put("devnet", "wrap", []byte{2}); err != nil {
		t.Fatalf("Put wrap: %v", err)
	}
	// capacity 1: the "step" entry's front-cache line was evicted by
	// "wrap", but the underlying LevelDB record must still answer Get.
	got, ok := c.Get("devnet", "step")
	if !ok {
		t.Fatal("expected LevelDB to still serve an evicted front entry")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("got %v, want [1]", got)
	}
}

func TestDistinctKindsDoNotCollide(t *testing.T) {
	c := openTestCache(t, 8)
	c.Put("devnet", "step", []byte{1})
	c.Put("devnet", "wrap", []byte{2})
	c.Put("mainnet", "step", []byte{3})

	for _, tc := range []struct {
		network, kind string
		want          byte
	}{
		{"devnet", "step", 1},
		{"devnet", "wrap", 2},
		{"mainnet", "step", 3},
	} {
		got, ok := c.Get(tc.network, tc.kind)
		if !ok || got[0] != tc.want {
			t.Fatalf("%s/%s: got %v ok=%v, want [%d] ok=true", tc.network, tc.kind, got, ok, tc.want)
		}
	}
}

func TestZeroCapacityDisablesFrontButStillPersists(t *testing.T) {
	c := openTestCache(t, 0)
	if err := c.Put("devnet", "step", []byte{9}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := c.Get("devnet", "step")
	if !ok || got[0] != 9 {
		t.Fatalf("got %v ok=%v, want [9] ok=true", got, ok)
	}
}
