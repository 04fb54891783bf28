package slideshow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// DefaultPreloadRadius is the number of images preloaded on each side of
	// the cursor.
	DefaultPreloadRadius = 3
	// DefaultExitTarget is where Close navigates to.
	DefaultExitTarget = "index"
)

// Loader fetches and decodes an image. Load blocks; the controller only calls it
// from inside a Task.
type Loader interface {
	Load(ctx context.Context, url string) (Image, error)
}

// CompletionKind distinguishes display loads from background preloads.
type CompletionKind int

const (
	KindDisplay CompletionKind = iota
	KindPreload
)

// Completion is the result of a Task, delivered back through Complete.
type Completion struct {
	Kind       CompletionKind
	Generation uint64
	Index      int
	URL        string
	Image      Image
	Err        error
}

// Task is asynchronous work issued by the controller. The event loop runs it
// off the loop and passes the result to Controller.Complete on the loop.
type Task func(ctx context.Context) Completion

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Keymap        Keymap
	PreloadRadius int // negative disables preloading
	ExitTarget    string
	Logger        zerolog.Logger
}

// Controller owns the cursor, the loading flag and the help overlay state. All
// methods must be called from the single event loop that owns the Viewport.
type Controller struct {
	seq    Sequence
	view   Viewport
	loader Loader
	keymap Keymap
	cache  *Cache
	radius int
	exit   string
	log    zerolog.Logger

	cursor     int
	generation uint64
	loading    bool
	help       bool
	displayed  string
	// awaiting is the URL the current generation waits on through an in-flight
	// preload instead of its own load.
	awaiting string
}

// New creates a controller over urls. It returns ErrEmptySequence when urls is
// empty.
func New(urls []string, view Viewport, loader Loader, opts Options) (*Controller, error) {
	seq, err := NewSequence(urls)
	if err != nil {
		return nil, err
	}

	keymap := opts.Keymap
	if keymap == nil {
		keymap = DefaultKeymap()
	}

	radius := opts.PreloadRadius
	if radius == 0 {
		radius = DefaultPreloadRadius
	}
	if radius < 0 {
		radius = 0
	}

	exit := opts.ExitTarget
	if exit == "" {
		exit = DefaultExitTarget
	}

	return &Controller{
		seq:    seq,
		view:   view,
		loader: loader,
		keymap: keymap,
		cache:  NewCache(2*radius + 1),
		radius: radius,
		exit:   exit,
		log:    opts.Logger,
	}, nil
}

// Initialize binds input through the viewport, hides the help overlay and shows
// the first image.
func (c *Controller) Initialize() ([]Task, error) {
	if err := c.view.Bind(c); err != nil {
		return nil, fmt.Errorf("bind viewport: %w", err)
	}

	c.help = false
	c.view.SetHelpVisible(false)

	return c.ShowImage(0), nil
}

// ShowImage navigates to index. Indices outside [0, Len) are ignored.
func (c *Controller) ShowImage(index int) []Task {
	if !c.seq.Contains(index) {
		c.log.Debug().Int("index", index).Int("len", c.seq.Len()).Msg("ignoring out of range image")
		return nil
	}

	c.cursor = index
	c.generation++
	c.awaiting = ""
	c.setLoading(true)
	c.view.SetCounter(c.Counter())

	url := c.seq.At(index)
	if img, ok := c.cache.Get(url); ok {
		c.log.Debug().Str("url", url).Int("index", index).Msg("image served from preload cache")
		return c.display(img)
	}
	if c.cache.Pending(url) {
		c.log.Debug().Str("url", url).Int("index", index).Msg("waiting on in-flight preload")
		c.awaiting = url
		return nil
	}

	gen := c.generation
	loader := c.loader
	return []Task{func(ctx context.Context) Completion {
		img, err := loader.Load(ctx, url)
		return Completion{Kind: KindDisplay, Generation: gen, Index: index, URL: url, Image: img, Err: err}
	}}
}

// Next advances the cursor, wrapping from the last image to the first.
func (c *Controller) Next() []Task {
	return c.ShowImage(c.seq.Wrap(c.cursor + 1))
}

// Prev moves the cursor back, wrapping from the first image to the last.
func (c *Controller) Prev() []Task {
	return c.ShowImage(c.seq.Wrap(c.cursor - 1))
}

// First shows the first image.
func (c *Controller) First() []Task {
	return c.ShowImage(0)
}

// Last shows the last image.
func (c *Controller) Last() []Task {
	return c.ShowImage(c.seq.Len() - 1)
}

// Close leaves the presentation. Loads still in flight are orphaned.
func (c *Controller) Close() {
	c.generation++
	c.awaiting = ""
	c.log.Info().Str("target", c.exit).Msg("closing presentation")
	c.view.Navigate(c.exit)
}

// ToggleHelp flips the help overlay.
func (c *Controller) ToggleHelp() {
	c.help = !c.help
	c.view.SetHelpVisible(c.help)
}

// Preload issues background loads for the images within the preload radius of
// the cursor. URLs already cached or in flight are skipped.
func (c *Controller) Preload() []Task {
	window := c.window()
	c.cache.Retain(window)

	var tasks []Task
	for i := 1; i <= c.radius; i++ {
		for _, idx := range []int{c.seq.Wrap(c.cursor - i), c.seq.Wrap(c.cursor + i)} {
			url := c.seq.At(idx)
			if !c.cache.Claim(url) {
				continue
			}
			tasks = append(tasks, c.preloadTask(idx, url))
		}
	}

	if len(tasks) > 0 {
		c.log.Debug().Int("cursor", c.cursor).Int("requests", len(tasks)).Msg("preloading neighborhood")
	}
	return tasks
}

// Complete applies the result of a Task. Display results from an older
// generation are cached but never shown.
func (c *Controller) Complete(done Completion) []Task {
	switch done.Kind {
	case KindPreload:
		waited := done.URL != "" && done.URL == c.awaiting
		if done.Err != nil {
			c.cache.Release(done.URL)
			if waited {
				c.awaiting = ""
				c.setLoading(false)
				c.log.Error().Err(&LoadError{URL: done.URL, Err: done.Err}).Int("index", done.Index).Msg("failed to load image")
				return nil
			}
			c.log.Debug().Err(done.Err).Str("url", done.URL).Msg("preload failed")
			return nil
		}
		if waited {
			c.awaiting = ""
			return c.display(done.Image)
		}
		c.cache.Put(done.Image)
		return nil

	default:
		if done.Generation != c.generation {
			if done.Err == nil {
				if done.URL != "" && done.URL == c.awaiting {
					c.awaiting = ""
					return c.display(done.Image)
				}
				c.cache.Put(done.Image)
			}
			c.log.Debug().
				Uint64("generation", done.Generation).
				Uint64("current", c.generation).
				Str("url", done.URL).
				Msg("discarding stale image load")
			return nil
		}

		if done.Err != nil {
			c.setLoading(false)
			err := &LoadError{URL: done.URL, Err: done.Err}
			c.log.Error().Err(err).Int("index", done.Index).Msg("failed to load image")
			return nil
		}

		return c.display(done.Image)
	}
}

// Dispatch performs a single action.
func (c *Controller) Dispatch(a Action) []Task {
	switch a {
	case ActionNext:
		return c.Next()
	case ActionPrev:
		return c.Prev()
	case ActionFirst:
		return c.First()
	case ActionLast:
		return c.Last()
	case ActionClose:
		c.Close()
	case ActionToggleHelp:
		c.ToggleHelp()
	}
	return nil
}

// HandleKey implements InputHandler.
func (c *Controller) HandleKey(key string) (bool, []Task) {
	a, ok := c.keymap[key]
	if !ok || a == ActionNone {
		return false, nil
	}
	return true, c.Dispatch(a)
}

// HandleClick implements InputHandler. Button clicks stop propagation so the
// enclosing image click handler does not also fire.
func (c *Controller) HandleClick(target Target) (bool, []Task) {
	switch target {
	case TargetNext:
		return true, c.Next()
	case TargetPrev:
		return true, c.Prev()
	case TargetClose:
		c.Close()
		return true, nil
	default:
		return false, c.Next()
	}
}

// Counter returns the position text, "index+1 / length".
func (c *Controller) Counter() string {
	return fmt.Sprintf("%d / %d", c.cursor+1, c.seq.Len())
}

// Cursor returns the current index.
func (c *Controller) Cursor() int { return c.cursor }

// Len returns the sequence length.
func (c *Controller) Len() int { return c.seq.Len() }

// Loading reports whether the current image is still loading.
func (c *Controller) Loading() bool { return c.loading }

// HelpVisible reports whether the help overlay is shown.
func (c *Controller) HelpVisible() bool { return c.help }

// Displayed returns the URL of the visible image, empty before the first load.
func (c *Controller) Displayed() string { return c.displayed }

// Generation returns the navigation generation.
func (c *Controller) Generation() uint64 { return c.generation }

// CacheLen returns the number of pending and ready preload entries.
func (c *Controller) CacheLen() int { return c.cache.Len() }

// Keymap returns the active key bindings.
func (c *Controller) Keymap() Keymap { return c.keymap }

func (c *Controller) display(img Image) []Task {
	c.displayed = img.URL
	c.view.ShowImage(img)
	c.setLoading(false)

	c.cache.Retain(c.window())
	c.cache.Put(img)
	return c.Preload()
}

func (c *Controller) setLoading(loading bool) {
	c.loading = loading
	c.view.SetLoading(loading)
}

// window lists the URLs within the preload radius, cursor included.
func (c *Controller) window() []string {
	urls := make([]string, 0, 2*c.radius+1)
	for i := -c.radius; i <= c.radius; i++ {
		urls = append(urls, c.seq.At(c.seq.Wrap(c.cursor+i)))
	}
	return urls
}

func (c *Controller) preloadTask(index int, url string) Task {
	loader := c.loader
	return func(ctx context.Context) Completion {
		img, err := loader.Load(ctx, url)
		return Completion{Kind: KindPreload, Index: index, URL: url, Image: img, Err: err}
	}
}
