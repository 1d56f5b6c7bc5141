package qoi

import "testing"

func TestHash(t *testing.T) {
	for _, tc := range []struct {
		p    Pixel
		want int
	}{
		{Pixel{0, 0, 0}, 53},
		{Pixel{255, 255, 255}, (255*3 + 255*5 + 255*7 + 255*11) % 64},
		{Pixel{10, 20, 30}, (30 + 100 + 210 + 2805) % 64},
		{Pixel{1, 0, 0}, 56},
	} {
		if got := Hash(tc.p); got != tc.want {
			t.Errorf("Hash(%v): got %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestHashRGBA_Alpha(t *testing.T) {
	if got := HashRGBA(0, 0, 0, 0); got != 0 {
		t.Errorf("transparent black: got %d, want 0", got)
	}
	if HashRGBA(7, 8, 9, 255) != Hash(Pixel{7, 8, 9}) {
		t.Error("Hash must use alpha 255")
	}
}

func TestCache_EmptyIsNotBlack(t *testing.T) {
	var c Cache
	h := Hash(Pixel{})
	if _, ok := c.Lookup(h); ok {
		t.Fatal("new cache reports filled slot")
	}
	c.Store(h, Pixel{})
	p, ok := c.Lookup(h)
	if !ok || p != (Pixel{}) {
		t.Fatalf("lookup after store: got %v, %v", p, ok)
	}
}

func TestCache_StoreOverwrites(t *testing.T) {
	var c Cache
	c.Store(63, Pixel{1, 2, 3})
	c.Store(63, Pixel{4, 5, 6})
	p, ok := c.Lookup(63)
	if !ok || p != (Pixel{4, 5, 6}) {
		t.Fatalf("got %v, %v", p, ok)
	}
	for i := 0; i < 63; i++ {
		if _, ok := c.Lookup(i); ok {
			t.Errorf("slot %d filled", i)
		}
	}
}
