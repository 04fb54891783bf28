package termimage

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/muesli/termenv"

	"github.com/hay-kot/slides/internal/slideshow"
)

type frameKey struct {
	id     string
	width  int
	height int
}

// FrameCache memoizes rendered frames. Frames are keyed by image digest so
// identical images at different URLs share one render. Least recently used
// frames are evicted past the limit.
type FrameCache struct {
	profile termenv.Profile
	frames  *lru.Cache[frameKey, string]
}

// NewFrameCache creates a cache holding at most limit frames.
func NewFrameCache(profile termenv.Profile, limit int) *FrameCache {
	// lru.New only fails for a non-positive size.
	frames, _ := lru.New[frameKey, string](max(limit, 1))
	return &FrameCache{
		profile: profile,
		frames:  frames,
	}
}

// Render returns the frame for img at width x height, rendering on a miss.
func (c *FrameCache) Render(img slideshow.Image, width, height int) string {
	id := img.Digest
	if id == "" {
		id = "url:" + img.URL
	}
	key := frameKey{id: id, width: width, height: height}

	if frame, ok := c.frames.Get(key); ok {
		return frame
	}

	frame := Render(img.Pixels, width, height, c.profile)
	c.frames.Add(key, frame)
	return frame
}

// Len returns the number of cached frames.
func (c *FrameCache) Len() int {
	return c.frames.Len()
}
