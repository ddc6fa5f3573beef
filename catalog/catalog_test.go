package catalog

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kaybarkbark/gbcater/log"
)

// romImage builds a minimal ROM image with the given title and
// cartridge type. The rest of the header decodes to a small MBC-less
// japanese cartridge published by Nintendo.
func romImage(title string, carttype byte) []byte {
	buf := make([]byte, 0x150)
	copy(buf[0x134:0x144], title)
	buf[0x147] = carttype
	buf[0x148] = 2    // 8 ROM banks
	buf[0x149] = 3    // 16KB RAM, 4 banks
	buf[0x14B] = 0x01 // Nintendo
	return buf
}

// writeTree builds a folder of fake ROM images, plus files a catalogue
// must ignore.
func writeTree(tb testing.TB) string {
	tb.Helper()

	dir := tb.TempDir()

	files := map[string][]byte{
		"alpha.gb":      romImage("ALPHA", 0x00),
		"beta.gbc":      romImage("BETA", 0x1B),
		"notes.txt":     []byte("not a rom"),
		"cover.png":     {0x89, 'P', 'N', 'G'},
		"sub/gamma.bin": romImage("GAMMA", 0x03),
		"sub/delta.gb":  romImage("DELTA", 0x19),
		"sub/tiny.gb":   make([]byte, 16),
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			tb.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			tb.Fatal(err)
		}
	}

	return dir
}

func TestDiscover(t *testing.T) {
	dir := writeTree(t)

	roms, total, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}

	want := []string{
		filepath.Join(dir, "alpha.gb"),
		filepath.Join(dir, "beta.gbc"),
		filepath.Join(dir, "sub", "delta.gb"),
		filepath.Join(dir, "sub", "gamma.bin"),
		filepath.Join(dir, "sub", "tiny.gb"),
	}
	if diff := cmp.Diff(want, roms); diff != "" {
		t.Errorf("roms mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverCustomExtensions(t *testing.T) {
	dir := writeTree(t)

	roms, total, err := Discover(dir, []string{".gbc"})
	if err != nil {
		t.Fatal(err)
	}

	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	want := []string{filepath.Join(dir, "beta.gbc")}
	if diff := cmp.Diff(want, roms); diff != "" {
		t.Errorf("roms mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverMissingDir(t *testing.T) {
	if _, _, err := Discover(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Error("no error for missing directory")
	}
}

func TestLoad(t *testing.T) {
	log.SetOutput(io.Discard)

	dir := writeTree(t)
	roms, _, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	var ncarts atomic.Int32
	entries, err := Load(roms, 4, func(Entry) { ncarts.Add(1) })
	if err != nil {
		t.Fatal(err)
	}

	// tiny.gb has no room for a header and must have been skipped.
	want := []string{"alpha.gb", "beta.gbc", "delta.gb", "gamma.bin"}
	var names []string
	for _, e := range entries {
		names = append(names, e.Filename)
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	if n := int(ncarts.Load()); n != len(want) {
		t.Errorf("onCart called %d times, want %d", n, len(want))
	}

	if got := entries[0].Cart.Title; got != "ALPHA" {
		t.Errorf("first title = %q, want ALPHA", got)
	}
	for _, e := range entries {
		if e.Cart.MD5 == "" {
			t.Errorf("%s: empty md5", e.Filename)
		}
	}
}

func TestLoadDefaultJobs(t *testing.T) {
	log.SetOutput(io.Discard)

	dir := writeTree(t)
	roms, _, err := Discover(dir, []string{".gb"})
	if err != nil {
		t.Fatal(err)
	}

	entries, err := Load(roms, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.gb")
	if _, err := Load([]string{missing}, 1, nil); err == nil {
		t.Error("no error for missing file")
	}
}
