// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestArenaRecycle(t *testing.T) {
	allocs := 0
	a := NewArena(func(desc TextureDesc) (*[]byte, error) {
		allocs++
		buf := make([]byte, int(desc.Width)*int(desc.Height)*4)
		return &buf, nil
	})

	desc := testDesc("tmp", 16, 16)

	// Steady state: acquire, release, acquire hits the free list.
	v1, err := a.Acquire(desc)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	a.Release(desc, v1)
	if got := a.FreeCount(desc.Key()); got != 1 {
		t.Fatalf("FreeCount() = %d, want 1", got)
	}
	v2, err := a.Acquire(desc)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if v1 != v2 {
		t.Error("second Acquire did not recycle the released store")
	}
	if allocs != 1 {
		t.Errorf("allocs = %d, want 1", allocs)
	}
}

func TestArenaBucketsByKey(t *testing.T) {
	a := NewArena(func(desc TextureDesc) (int, error) { return int(desc.Width), nil })

	small := testDesc("small", 8, 8)
	big := testDesc("big", 32, 32)
	bgra := TextureDesc{Label: "bgra", Width: 8, Height: 8, Format: gputypes.TextureFormatBGRA8Unorm}

	v, _ := a.Acquire(small)
	a.Release(small, v)

	// A different resolution or format must not hit the small bucket.
	if got, _ := a.Acquire(big); got != 32 {
		t.Errorf("Acquire(big) = %d, want fresh 32", got)
	}
	if got, _ := a.Acquire(bgra); got != 8 {
		t.Errorf("Acquire(bgra) allocated %d, want fresh 8", got)
	}
	if got := a.FreeCount(small.Key()); got != 1 {
		t.Errorf("small bucket FreeCount() = %d, want 1", got)
	}
}

func TestArenaReset(t *testing.T) {
	resets := 0
	a := NewArena(func(desc TextureDesc) (*int, error) { v := 7; return &v, nil })
	a.Reset = func(v *int) { *v = 0; resets++ }

	desc := testDesc("tmp", 4, 4)
	v, _ := a.Acquire(desc)
	if resets != 0 {
		t.Fatal("Reset ran on a fresh allocation")
	}
	a.Release(desc, v)
	got, _ := a.Acquire(desc)
	if resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
	if *got != 0 {
		t.Errorf("recycled value = %d, want 0 after Reset", *got)
	}
}

func TestArenaDrain(t *testing.T) {
	a := NewArena(func(desc TextureDesc) (int, error) { return 1, nil })
	d1 := testDesc("a", 8, 8)
	d2 := testDesc("b", 16, 16)
	a.Release(d1, 1)
	a.Release(d1, 2)
	a.Release(d2, 3)

	all := a.Drain()
	if len(all) != 3 {
		t.Errorf("Drain() returned %d stores, want 3", len(all))
	}
	if a.FreeCount(d1.Key()) != 0 || a.FreeCount(d2.Key()) != 0 {
		t.Error("Drain() left pooled stores behind")
	}
}
