// Package catalog turns folders of Game Boy ROM images into CSV or
// JSON reports.
package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kaybarkbark/gbcater/gb"
	"github.com/kaybarkbark/gbcater/log"
)

// DefaultExtensions lists the file extensions Discover keeps when the
// caller passes none.
var DefaultExtensions = []string{".gb", ".gbc", ".bin"}

// An Entry is one catalogued ROM file.
type Entry struct {
	Filename string // base name of the file
	Path     string // path as discovered
	Cart     gb.Cartridge
}

// Discover walks dir and collects the paths of the ROM images under
// it, in lexical order. total counts every file seen, matching or not,
// so callers can report how much of the folder was catalogued.
func Discover(dir string, exts []string) (roms []string, total int, err error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		total++
		if slices.Contains(exts, filepath.Ext(path)) {
			roms = append(roms, path)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return roms, total, nil
}

// Load decodes the given ROM files, at most jobs at a time (zero or
// negative means one per CPU). Entries come back in paths order
// regardless of scheduling. Files too small to hold a header are
// warned about and skipped so that one truncated image does not abort
// a batch; any other read failure does. onCart, when non-nil, is
// invoked once per decoded entry, possibly from concurrent goroutines.
func Load(paths []string, jobs int, onCart func(Entry)) ([]Entry, error) {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	start := time.Now()

	var g errgroup.Group
	g.SetLimit(jobs)

	entries := make([]*Entry, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			cart, err := gb.ReadRom(path)
			switch {
			case errors.Is(err, gb.ErrTooSmall):
				log.ModCatalog.WarnZ("skipping rom").
					String("path", path).
					Error("err", err).
					End()
				return nil
			case err != nil:
				return err
			}

			entries[i] = &Entry{
				Filename: filepath.Base(path),
				Path:     path,
				Cart:     cart,
			}
			if onCart != nil {
				onCart(*entries[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	carts := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			carts = append(carts, *e)
		}
	}

	log.ModCatalog.DebugZ("batch decoded").
		Int("roms", len(carts)).
		Int("jobs", jobs).
		Duration("took", time.Since(start)).
		End()
	return carts, nil
}
