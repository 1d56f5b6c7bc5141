package qoi

// CacheSize is the number of slots in the color cache.
const CacheSize = 64

// HashRGBA returns the cache slot of a color. It is a number between 0 and 63.
func HashRGBA(r, g, b, a uint8) int {
	return (int(r)*3 + int(g)*5 + int(b)*7 + int(a)*11) % CacheSize
}

// Hash returns the cache slot of an opaque pixel.
func Hash(p Pixel) int {
	return HashRGBA(p.R, p.G, p.B, 255)
}

// Cache remembers the last pixel written to each hash slot. Collisions
// overwrite. The zero value is an empty cache.
type Cache struct {
	slots [CacheSize]Pixel
	used  uint64
}

// Lookup returns the pixel in slot i and whether the slot was ever written.
func (c *Cache) Lookup(i int) (Pixel, bool) {
	if c.used&(1<<uint(i)) == 0 {
		return Pixel{}, false
	}
	return c.slots[i], true
}

// Store writes p to slot i, replacing whatever was there.
func (c *Cache) Store(i int, p Pixel) {
	c.slots[i] = p
	c.used |= 1 << uint(i)
}
