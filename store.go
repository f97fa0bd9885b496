package mdblog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when a requested post does not exist.
	ErrNotFound = errors.New("post not found")
	// ErrInvalidSlug is returned for slugs that cannot name a post file.
	// It matches ErrNotFound with errors.Is.
	ErrInvalidSlug = fmt.Errorf("%w: invalid slug", ErrNotFound)
)

// SortOrder controls the order of index entries.
type SortOrder string

const (
	SortModified SortOrder = "modified" // newest first, ties by name
	SortName     SortOrder = "name"
	SortNone     SortOrder = "none" // directory order
)

// Store reads blog posts from a directory of markdown files. It holds no
// mutable state; every call goes to the filesystem.
type Store struct {
	fsys fs.FS
	ext  string
	sort SortOrder
	log  *zap.SugaredLogger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithExtension sets the post file extension (default ".md").
func WithExtension(ext string) StoreOption {
	return func(s *Store) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.ext = ext
	}
}

// WithSortOrder sets the index order (default SortModified).
func WithSortOrder(order SortOrder) StoreOption {
	return func(s *Store) {
		s.sort = order
	}
}

// WithStoreLogger sets the logger used for skipped files.
func WithStoreLogger(log *zap.SugaredLogger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore returns a Store over the directory dir.
func NewStore(dir string, opts ...StoreOption) *Store {
	return NewStoreFS(os.DirFS(dir), opts...)
}

// NewStoreFS returns a Store over fsys.
func NewStoreFS(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fsys: fsys,
		ext:  ".md",
		sort: SortModified,
		log:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ext == "" {
		s.ext = ".md"
	}
	return s
}

// ListEntries returns one entry per post file in the storage directory.
// Files whose metadata cannot be read are skipped with a warning.
func (s *Store) ListEntries() ([]BlogEntry, error) {
	dirents, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read blog directory: %w", err)
	}

	entries := make([]BlogEntry, 0, len(dirents))
	for _, d := range dirents {
		name := d.Name()
		if strings.HasPrefix(name, ".") || path.Ext(name) != s.ext {
			continue
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			continue
		}
		info, err := fs.Stat(s.fsys, name)
		if err != nil {
			s.log.Warnw("skipping unreadable post", "file", name, "error", err)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		stem := strings.TrimSuffix(name, s.ext)
		entries = append(entries, BlogEntry{
			Name:         stem,
			Slug:         SlugFromName(stem),
			LastModified: info.ModTime().UTC(),
		})
	}
	s.sortEntries(entries)
	return entries, nil
}

func (s *Store) sortEntries(entries []BlogEntry) {
	switch s.sort {
	case SortName:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	case SortNone:
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if !a.LastModified.Equal(b.LastModified) {
				return a.LastModified.After(b.LastModified)
			}
			return a.Name < b.Name
		})
	}
}

// ReadPost loads the markdown source for slug. The slug's separators are
// turned back into spaces; if no such file exists the slug is tried as a
// literal filename stem.
func (s *Store) ReadPost(slug string) (Post, error) {
	if err := ValidateSlug(slug); err != nil {
		return Post{}, err
	}
	for _, stem := range candidateStems(slug) {
		name := stem + s.ext
		if !fs.ValidPath(name) {
			return Post{}, ErrInvalidSlug
		}
		info, err := fs.Stat(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENAMETOOLONG) {
			continue
		}
		if err != nil {
			return Post{}, fmt.Errorf("stat post %q: %w", name, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		data, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return Post{}, fmt.Errorf("read post %q: %w", name, err)
		}
		return Post{
			BlogEntry: BlogEntry{
				Name:         stem,
				Slug:         slug,
				LastModified: info.ModTime().UTC(),
			},
			Source: string(data),
		}, nil
	}
	return Post{}, ErrNotFound
}

// Check reports whether the storage directory is readable.
func (s *Store) Check() error {
	if _, err := fs.ReadDir(s.fsys, "."); err != nil {
		return fmt.Errorf("read blog directory: %w", err)
	}
	return nil
}

func candidateStems(slug string) []string {
	stem := NameFromSlug(slug)
	if stem == slug {
		return []string{stem}
	}
	return []string{stem, slug}
}
