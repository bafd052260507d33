package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const IndexDocument = "index.html"

var ErrNotFound = errors.New("static: file not found")

// Site resolves request paths against the asset root and renders HTML
// documents with the public configuration injected
type Site struct {
	root     string
	injector *Injector
	rendered *cache.Cache
}

// NewSite caches rendered documents for ttl. A ttl of zero renders on every
// request.
func NewSite(root string, injector *Injector, ttl time.Duration) *Site {
	s := &Site{root: root, injector: injector}
	if ttl > 0 {
		s.rendered = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *Site) Root() string {
	return s.root
}

// IsDocument reports whether urlPath gets config injection
func IsDocument(urlPath string) bool {
	return urlPath == "/" || strings.HasSuffix(urlPath, ".html")
}

// resolve maps a URL path to a file under root. Cleaning the rooted path
// removes every "..", so the result cannot escape root.
func (s *Site) resolve(urlPath string) string {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		clean = "/" + IndexDocument
	}
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

// Asset returns the file path for urlPath when it names a regular file
func (s *Site) Asset(urlPath string) (string, bool) {
	name := s.resolve(urlPath)
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return name, true
}

// Document renders the HTML file at urlPath with the configuration
// injected. It returns ErrNotFound when there is no such file.
func (s *Site) Document(urlPath string) ([]byte, error) {
	name := s.resolve(urlPath)
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}

	key := name + "@" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	if s.rendered != nil {
		if doc, found := s.rendered.Get(key); found {
			return doc.([]byte), nil
		}
	}

	raw, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", urlPath, err)
	}

	doc, err := s.injector.Inject(raw)
	if err != nil {
		return nil, err
	}

	if s.rendered != nil {
		s.rendered.SetDefault(key, doc)
	}
	return doc, nil
}

// Fallback renders the root document for client side routes
func (s *Site) Fallback() ([]byte, error) {
	return s.Document("/")
}

// Listing returns the names directly under the asset root, directories
// suffixed with a slash
func (s *Site) Listing() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
