// Package deck resolves configured decks and command line arguments into
// ordered image URL lists.
package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/slides/internal/core/config"
)

// DefaultGlob matches the image formats the loader can decode.
const DefaultGlob = "*.{jpg,jpeg,png,gif,webp,bmp,JPG,JPEG,PNG,GIF,WEBP,BMP}"

// ErrEmptyDeck is returned when a deck resolves to no images.
var ErrEmptyDeck = errors.New("deck has no images")

// Manifest is a YAML file listing a deck's images.
type Manifest struct {
	Title  string   `yaml:"title"`
	Images []string `yaml:"images"`
}

// Resolved is a deck ready to present.
type Resolved struct {
	Name  string
	Title string
	// BaseDir resolves relative image paths.
	BaseDir string
	URLs    []string
}

// Resolve expands d into image URLs. Relative paths are resolved against the
// deck dir when set, otherwise the config directory.
func Resolve(cfg *config.Config, d config.Deck) (Resolved, error) {
	res := Resolved{Name: d.Name, Title: d.DisplayTitle(), BaseDir: cfg.ConfigDir}

	var dir string
	if d.Dir != "" {
		dir = cfg.ResolvePath(d.Dir)
		res.BaseDir = dir
	}

	res.URLs = append(res.URLs, d.Images...)

	if d.Manifest != "" {
		path := cfg.ResolvePath(d.Manifest)
		m, err := LoadManifest(path)
		if err != nil {
			return res, err
		}
		if m.Title != "" && d.Title == "" {
			res.Title = m.Title
		}
		// Manifest entries are relative to the manifest itself.
		for _, img := range m.Images {
			res.URLs = append(res.URLs, absolutize(img, filepath.Dir(path)))
		}
	}

	if dir != "" {
		glob := d.Glob
		if glob == "" {
			glob = DefaultGlob
		}
		matches, err := Glob(dir, glob)
		if err != nil {
			return res, err
		}
		res.URLs = append(res.URLs, matches...)
	}

	if len(res.URLs) == 0 {
		return res, fmt.Errorf("deck %q: %w", d.Name, ErrEmptyDeck)
	}
	return res, nil
}

// LoadManifest reads a YAML manifest file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Glob returns the files under dir matching pattern as absolute paths, sorted
// lexically.
func Glob(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}

	slices.Sort(matches)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	return out, nil
}

// FromArgs builds a deck from command line arguments. Each argument is a URL,
// an image file or a directory expanded with DefaultGlob.
func FromArgs(args []string, cwd string) (Resolved, error) {
	res := Resolved{Name: "args", Title: "slides", BaseDir: cwd}

	for _, arg := range args {
		if isRemote(arg) {
			res.URLs = append(res.URLs, arg)
			continue
		}

		path := absolutize(arg, cwd)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return res, fmt.Errorf("%s: no such file or directory", arg)
			}
			return res, err
		}

		if !info.IsDir() {
			res.URLs = append(res.URLs, path)
			continue
		}

		matches, err := Glob(path, DefaultGlob)
		if err != nil {
			return res, err
		}
		res.URLs = append(res.URLs, matches...)
	}

	if len(args) == 1 {
		res.Title = filepath.Base(args[0])
	}

	if len(res.URLs) == 0 {
		return res, ErrEmptyDeck
	}
	return res, nil
}

func isRemote(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "file"
}

func absolutize(path, base string) string {
	if isRemote(path) || filepath.IsAbs(path) || strings.HasPrefix(path, "~/") {
		return path
	}
	return filepath.Join(base, path)
}
