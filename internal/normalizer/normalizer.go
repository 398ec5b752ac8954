// Package normalizer converts the JPEG images of a directory to PNG.
package normalizer

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileResult is the outcome for one source file.
type FileResult struct {
	Name   string
	Target string
	Err    error
}

// Report collects the per-file outcomes of a run.
type Report struct {
	Converted []FileResult
	Failed    []FileResult
}

// Normalizer converts .jpg/.jpeg files to .png and deletes the originals.
type Normalizer struct {
	log zerolog.Logger
}

// New creates a Normalizer.
func New(log zerolog.Logger) *Normalizer {
	return &Normalizer{log: log.With().Str("component", "normalizer").Logger()}
}

// IsJPEG reports whether name has a .jpg or .jpeg extension, in any case.
func IsJPEG(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// Run converts every JPEG directly inside dir. Subdirectories are not
// visited. A file that fails is logged, recorded and left untouched; the run
// carries on with the next file. Only an unreadable dir or a cancelled ctx
// stop the run early.
func (n *Normalizer) Run(ctx context.Context, dir string) (Report, error) {
	var report Report

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if entry.IsDir() || !IsJPEG(entry.Name()) {
			continue
		}

		src := filepath.Join(dir, entry.Name())
		dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".png"
		res := FileResult{Name: entry.Name(), Target: filepath.Base(dst)}

		if err := convertFile(src, dst); err != nil {
			res.Err = err
			report.Failed = append(report.Failed, res)
			n.log.Error().Err(err).Str("file", res.Name).Msg("Failed to convert")
			continue
		}
		if err := os.Remove(src); err != nil {
			res.Err = fmt.Errorf("remove original: %w", err)
			report.Failed = append(report.Failed, res)
			n.log.Error().Err(res.Err).Str("file", res.Name).Msg("Converted but original kept")
			continue
		}

		report.Converted = append(report.Converted, res)
		n.log.Info().Str("file", res.Name).Str("target", res.Target).Msg("Converted and removed")
	}

	return report, nil
}

// convertFile writes the PNG next to dst first and renames it into place,
// so dst only ever holds a complete image.
func convertFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := jpeg.Decode(in)
	if err != nil {
		return fmt.Errorf("decode jpeg: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".normalize-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := png.Encode(tmp, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename png: %w", err)
	}
	return nil
}

// Empty reports whether the run found no JPEG files.
func (r Report) Empty() bool {
	return len(r.Converted)+len(r.Failed) == 0
}

// Summary returns a one-line description of the report.
func (r Report) Summary() string {
	if r.Empty() {
		return "no jpeg files found"
	}
	return fmt.Sprintf("%d converted, %d failed", len(r.Converted), len(r.Failed))
}
