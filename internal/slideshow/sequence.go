// Package slideshow implements the slideshow controller: a cursor over an
// immutable image sequence, asynchronous image loading with a generation guard,
// neighborhood preloading and the help overlay toggle.
//
// The controller never touches a terminal or document directly. It renders into
// a Viewport and issues blocking work as Tasks; the owning event loop runs each
// Task off the loop and hands the resulting Completion back to Complete.
package slideshow

import (
	"errors"
	"image"
)

// ErrEmptySequence is returned when a controller is constructed without images.
var ErrEmptySequence = errors.New("image sequence is empty")

// Sequence is an ordered list of image URLs. It cannot change after construction.
type Sequence struct {
	urls []string
}

// NewSequence copies urls into a Sequence. It returns ErrEmptySequence when urls
// is empty.
func NewSequence(urls []string) (Sequence, error) {
	if len(urls) == 0 {
		return Sequence{}, ErrEmptySequence
	}

	cp := make([]string, len(urls))
	copy(cp, urls)
	return Sequence{urls: cp}, nil
}

// Len returns the number of images.
func (s Sequence) Len() int {
	return len(s.urls)
}

// At returns the URL at index i. i must be in range.
func (s Sequence) At(i int) string {
	return s.urls[i]
}

// Contains reports whether i is a valid index.
func (s Sequence) Contains(i int) bool {
	return i >= 0 && i < len(s.urls)
}

// Wrap maps any integer onto [0, Len) modulo the sequence length.
func (s Sequence) Wrap(i int) int {
	n := len(s.urls)
	return ((i % n) + n) % n
}

// Image is a loaded image resource.
type Image struct {
	URL    string
	Digest string // content hash, empty when unknown
	Pixels image.Image
}
