package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrInvalidName = errors.New("invalid image name")
)

var allowedExt = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".ico": {},
}

type Image struct {
	Filename     string `json:"filename"`
	FileLocation string `json:"file_location"`
}

// ImageStore keeps uploaded images flat in Dir.
type ImageStore struct {
	Dir string
	Now func() time.Time
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &ImageStore{Dir: dir}, nil
}

func (s *ImageStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// List pages through stored images, newest name first.
func (s *ImageStore) List(offset, limit int) (int, []Image, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return 0, nil, fmt.Errorf("read upload dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	total := len(names)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	out := make([]Image, 0, end-offset)
	for _, n := range names[offset:end] {
		out = append(out, s.image(n))
	}
	return total, out, nil
}

// Save copies r under a generated name that keeps the original extension.
func (s *ImageStore) Save(originalName string, r io.Reader) (Image, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExt[ext]; !ok {
		return Image{}, fmt.Errorf("%w: extension %q not allowed", ErrInvalidName, ext)
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	name := s.now().Format("20060102150405") + "_" + suffix + ext

	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return Image{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Image{}, fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Image{}, fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		return Image{}, fmt.Errorf("store image: %w", err)
	}
	return s.image(name), nil
}

// Path resolves name inside Dir. Anything that is not a bare file name is
// rejected.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	p := filepath.Join(s.Dir, name)
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return p, nil
}

func (s *ImageStore) Delete(name string) (Image, error) {
	p, err := s.Path(name)
	if err != nil {
		return Image{}, err
	}
	if err := os.Remove(p); err != nil {
		return Image{}, fmt.Errorf("delete image: %w", err)
	}
	return s.image(name), nil
}

func (s *ImageStore) image(name string) Image {
	return Image{Filename: name, FileLocation: filepath.ToSlash(filepath.Join(s.Dir, name))}
}
