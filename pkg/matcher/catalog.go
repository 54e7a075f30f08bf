package matcher

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"

	"go.netreplay.io/netreplay/pkg/models"
)

// bucket holds the responses registered under one matcher key. Entries are
// ordered newest-registered first; repeated calls to the same endpoint walk
// the list and the final entry repeats once exhausted.
type bucket struct {
	matcher *Matcher
	entries []*models.ResponseRecord
	cursor  int
}

func (b *bucket) next() *models.ResponseRecord {
	i := b.cursor
	if i >= len(b.entries) {
		i = len(b.entries) - 1
	}
	b.cursor++
	return b.entries[i]
}

// Catalog is the ordered keyed registry of matchers for one session.
// Lookup walks buckets in registration order and serves from the first
// matcher that accepts the request.
type Catalog struct {
	buckets *linkedhashmap.Map
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{buckets: linkedhashmap.New()}
}

// Register adds responses under a matcher. A colliding key merges: the new
// entries go in front, the previous entries are kept behind them as
// fallbacks, and the bucket moves to the back of the iteration order.
func (c *Catalog) Register(m *Matcher, responses []*models.ResponseRecord) {
	key := m.Key()
	entries := append([]*models.ResponseRecord(nil), responses...)
	if existing, ok := c.buckets.Get(key); ok {
		entries = append(entries, existing.(*bucket).entries...)
		c.buckets.Remove(key)
	}
	c.buckets.Put(key, &bucket{matcher: m, entries: entries})
}

// Find returns the next response for the first matcher accepting the
// request, or false when no matcher does.
func (c *Catalog) Find(method models.Method, rawURL string) (*models.ResponseRecord, bool) {
	it := c.buckets.Iterator()
	for it.Next() {
		b := it.Value().(*bucket)
		if b.matcher.Matches(method, rawURL) {
			return b.next(), true
		}
	}
	return nil, false
}

// Len reports the number of registered matcher keys.
func (c *Catalog) Len() int {
	return c.buckets.Size()
}

// Reset drops every registered matcher and serving cursor.
func (c *Catalog) Reset() {
	c.buckets.Clear()
}
