package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/stemsi/qbank-manager/internal/config"
)

// Allowed image extensions for discovery, lower-case.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".svg":  true,
	".gif":  true,
}

// IsImageFile reports whether name has an allowed image extension.
func IsImageFile(name string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(name))]
}

// ImageService discovers image files under the public image root.
type ImageService struct {
	publicDir string
	root      string
}

// NewImageService creates a new ImageService.
func NewImageService(cfg *config.Config) *ImageService {
	return &ImageService{publicDir: cfg.PublicDir, root: cfg.ImageRoot()}
}

// Discover lists every image under the image root, recursively. Paths are
// relative to the public root, use forward slashes, start with "/" and are
// sorted. A missing image root yields an empty list.
func (s *ImageService) Discover(ctx context.Context) ([]string, error) {
	root := s.root
	paths := []string{}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !IsImageFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(s.publicDir, p)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", p, err)
		}
		paths = append(paths, "/"+filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("discover images: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ImageURL returns the URL under which an entry image is served, or "" for
// an empty path.
func ImageURL(imagePath string) string {
	cleaned := strings.TrimLeft(imagePath, "/")
	if cleaned == "" {
		return ""
	}
	return path.Join("/public", cleaned)
}
