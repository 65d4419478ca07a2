package internal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/dcrodman/nb3cut/internal/catalog"
	"github.com/dcrodman/nb3cut/internal/core"
	"github.com/dcrodman/nb3cut/internal/ls11"
	"github.com/dcrodman/nb3cut/internal/nb3"
)

// Controller is the main entrypoint for nb3cut. It decides what happens to each
// track: tracks of a palette archive feed the palette, tracks of every other
// configured archive become bitmaps.
type Controller struct {
	Config *core.Config
	Logger *logrus.Logger
	// DB is the extraction catalog. Nil disables recording.
	DB *gorm.DB

	palettes *paletteCache
}

// Run extracts every configured archive in order. An error stops the archive
// it happened in; bitmaps already written stay on disk. Later archives are
// only attempted when continue_on_error is set.
func (c *Controller) Run(ctx context.Context) error {
	if c.palettes == nil {
		c.palettes = newPaletteCache()
	}

	if err := os.MkdirAll(c.Config.OutputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	var errs []error
	for _, archive := range c.Config.Archives {
		if err := c.extractArchive(ctx, archive); err != nil {
			c.Logger.Errorf("%v", err)
			errs = append(errs, err)
			if !c.Config.ContinueOnError || ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) options() ls11.Options {
	return ls11.Options{MaxTrackSize: c.Config.MaxTrackSize}
}

func (c *Controller) sourcePath(archive string) string {
	if filepath.IsAbs(archive) {
		return filepath.Clean(archive)
	}
	return filepath.Join(c.Config.SourceDir, archive)
}

// loadPalette decodes the palette track of archive, reusing the result for
// every later archive that shares the same palette archive.
func (c *Controller) loadPalette(ctx context.Context, archive string) (*nb3.Palette, error) {
	path := c.sourcePath(archive)
	if p, ok := c.palettes.Get(path); ok {
		return p, nil
	}

	builder := nb3.NewPaletteBuilder(c.Config.Palette.Track)
	err := ls11.ExtractFile(ctx, path, c.options(), func(t *ls11.Track) error {
		return builder.Build(t.Data, t.Index)
	})
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	p, err := builder.Palette()
	if err != nil {
		return nil, fmt.Errorf("%s has no track %d: %w", path, c.Config.Palette.Track, err)
	}
	c.palettes.Put(path, p)

	c.Logger.Infof("loaded palette from %s (track %d)", path, c.Config.Palette.Track)
	return p, nil
}

func (c *Controller) extractArchive(ctx context.Context, archive core.ArchiveConfig) error {
	palette, err := c.loadPalette(ctx, c.Config.PaletteArchive(archive))
	if err != nil {
		return err
	}

	path := c.sourcePath(archive.Path)
	c.Logger.Infof("extracting %s", path)

	var count int
	err = ls11.ExtractFile(ctx, path, c.options(), func(t *ls11.Track) error {
		output, err := c.writeBitmap(archive, t, palette)
		if err != nil {
			return fmt.Errorf("track %d: %w", t.Index, err)
		}
		c.Logger.Debugf("track %03d (%d bytes) -> %s", t.Index, t.ExtractedSize, output)

		if err := c.recordTrack(path, t, output); err != nil {
			return fmt.Errorf("track %d: %w", t.Index, err)
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("extracting %s: %w", path, err)
	}

	c.Logger.Infof("wrote %d bitmaps from %s", count, path)
	return nil
}

// writeBitmap encodes t into the output directory and returns the file path.
// A bitmap that fails part way is removed.
func (c *Controller) writeBitmap(archive core.ArchiveConfig, t *ls11.Track, palette *nb3.Palette) (string, error) {
	name, err := nb3.OutputName(archive.Path, t.Index, archive.Names, c.Config.FilenameEncoding)
	if err != nil {
		return "", err
	}
	output := filepath.Join(c.Config.OutputDir, name)

	f, err := os.Create(output)
	if err != nil {
		return "", fmt.Errorf("error creating %s: %w", output, err)
	}

	w := bufio.NewWriter(f)
	if err = nb3.Encode(w, t.Data, palette); err == nil {
		err = w.Flush()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(output)
		return "", fmt.Errorf("error writing %s: %w", output, err)
	}
	return output, nil
}

func (c *Controller) recordTrack(archive string, t *ls11.Track, output string) error {
	if c.DB == nil {
		return nil
	}
	return catalog.RecordTrack(c.DB, &catalog.Track{
		Archive:          archive,
		TrackIndex:       t.Index,
		CompressedLength: t.CompressedLength,
		ExtractedSize:    t.ExtractedSize,
		DataOffset:       t.Offset,
		Output:           output,
		Checksum:         crc32.ChecksumIEEE(t.Data),
		ExtractedAt:      time.Now(),
	})
}

// List logs the track directory of the palette archive and every configured
// archive without extracting anything.
func (c *Controller) List(ctx context.Context) error {
	paths := []string{c.Config.Palette.Archive}
	for _, archive := range c.Config.Archives {
		if archive.Palette != "" {
			paths = append(paths, archive.Palette)
		}
		paths = append(paths, archive.Path)
	}

	listed := make(map[string]bool)
	for _, archive := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := c.sourcePath(archive)
		if listed[path] {
			continue
		}
		listed[path] = true

		header, err := ls11.ReadHeaderFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		for i, t := range header.Tracks {
			c.Logger.Infof("%s track %03d: length=%d size=%d offset=%d",
				path, i, t.CompressedLength, t.ExtractedSize, t.Offset)
		}
		c.Logger.Infof("%d tracks contained in %s", len(header.Tracks), path)
		c.Logger.Debugf("%s header:\n%s", path, spew.Sdump(header))
	}
	return nil
}
