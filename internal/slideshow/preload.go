package slideshow

// Cache holds images keyed by URL for the current preload window. A URL is either
// pending (a load was issued) or ready. Entries outside the window are evicted
// whenever the window moves, so the cache never outgrows the window.
type Cache struct {
	entries map[string]cacheEntry
	window  map[string]struct{}
	limit   int
}

type cacheEntry struct {
	img     Image
	pending bool
}

// NewCache creates a cache holding at most limit entries.
func NewCache(limit int) *Cache {
	if limit < 1 {
		limit = 1
	}
	return &Cache{
		entries: make(map[string]cacheEntry, limit),
		limit:   limit,
	}
}

// Get returns the ready image for url.
func (c *Cache) Get(url string) (Image, bool) {
	e, ok := c.entries[url]
	if !ok || e.pending {
		return Image{}, false
	}
	return e.img, true
}

// Pending reports whether a load for url is in flight.
func (c *Cache) Pending(url string) bool {
	e, ok := c.entries[url]
	return ok && e.pending
}

// Claim marks url as pending. It returns false when url is already pending or
// ready, in which case no new load should be issued.
func (c *Cache) Claim(url string) bool {
	if _, ok := c.entries[url]; ok {
		return false
	}
	if !c.admits(url) {
		return false
	}
	c.entries[url] = cacheEntry{pending: true}
	return true
}

// Put stores a loaded image. Images whose URL left the window are dropped.
func (c *Cache) Put(img Image) bool {
	if _, ok := c.entries[img.URL]; !ok && !c.admits(img.URL) {
		return false
	}
	if c.window != nil {
		if _, ok := c.window[img.URL]; !ok {
			delete(c.entries, img.URL)
			return false
		}
	}
	c.entries[img.URL] = cacheEntry{img: img}
	return true
}

// Release forgets a pending url after a failed load so a later window can
// retry it.
func (c *Cache) Release(url string) {
	if e, ok := c.entries[url]; ok && e.pending {
		delete(c.entries, url)
	}
}

// Retain moves the window to urls and evicts every entry outside it.
func (c *Cache) Retain(urls []string) {
	c.window = make(map[string]struct{}, len(urls))
	for _, u := range urls {
		c.window[u] = struct{}{}
	}
	for u := range c.entries {
		if _, ok := c.window[u]; !ok {
			delete(c.entries, u)
		}
	}
}

// Len returns the number of pending and ready entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) admits(url string) bool {
	if c.window != nil {
		_, ok := c.window[url]
		return ok
	}
	return len(c.entries) < c.limit
}
