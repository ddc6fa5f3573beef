package gb

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testImage returns a small ROM image with sane header defaults: an
// MBC5+RAM+Battery cartridge with 64 banks of ROM, 16 KiB of RAM, SGB
// support and a legacy Nintendo licensee code.
func testImage(tb testing.TB) []byte {
	tb.Helper()
	data := make([]byte, 0x150)
	copy(data[titleAddr:], "POKEMON RED")
	data[sgbFlagAddr] = 0x03
	data[cartTypeAddr] = 0x1B
	data[romShiftAddr] = 5 // 64 banks
	data[ramCodeAddr] = 3  // 16 KiB over 4 banks
	data[oldLicCodeAddr] = 0x01
	data[maskROMVerAddr] = 1
	return data
}

func TestDecode(t *testing.T) {
	data := testImage(t)
	sum := md5.Sum(data)

	want := Cartridge{
		Hardware:       Hardware{Mapper: MBC5, RAM: true, Battery: true},
		ROMBanks:       64,
		RAMBanks:       4,
		RAMSize:        16384,
		Title:          "POKEMON RED",
		CGB:            CGBNone,
		SGB:            true,
		Region:         "Japan",
		MaskROMVersion: 1,
		Licensee:       "Nintendo",
		OldLicensee:    true,
		MD5:            hex.EncodeToString(sum[:]),
	}
	got := Decode(data)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestROMSizing(t *testing.T) {
	data := testImage(t)
	for code := 0; code < 256; code++ {
		data[romShiftAddr] = byte(code)
		c := Decode(data)
		if c.ROMSize() != c.ROMBanks*0x4000 {
			t.Fatalf("code %#02x: ROMSize() = %d with %d banks", code, c.ROMSize(), c.ROMBanks)
		}
		if c.ROMBanks <= 0 {
			t.Fatalf("code %#02x: non-positive bank count %d", code, c.ROMBanks)
		}
	}

	tests := []struct {
		code  byte
		banks int
	}{
		{0, 2},
		{1, 4},
		{5, 64},
		{8, 512},
		{9, 1024},
	}
	for _, tt := range tests {
		data[romShiftAddr] = tt.code
		if got := Decode(data).ROMBanks; got != tt.banks {
			t.Errorf("code %d: ROMBanks = %d, want %d", tt.code, got, tt.banks)
		}
	}
}

func TestRAMSizing(t *testing.T) {
	tests := []struct {
		code      byte
		cartType  byte // selects the mapper
		wantSize  int
		wantBanks int
	}{
		{0, 0x1B, 0, 0},
		{1, 0x1B, 0, 0},
		{2, 0x1B, 2048, 1},
		{3, 0x1B, 16384, 4},
		{4, 0x1B, 65536, 16},
		{5, 0x1B, 32768, 8},
		{6, 0x1B, 0, 0},
		{0xFF, 0x1B, 0, 0},
		// MBC2 carries its own 256 bytes whatever the code says
		{0, 0x05, 256, 1},
		{3, 0x06, 256, 1},
		{0xFF, 0x05, 256, 1},
	}
	data := testImage(t)
	for _, tt := range tests {
		data[cartTypeAddr] = tt.cartType
		data[ramCodeAddr] = tt.code
		c := Decode(data)
		if c.RAMSize != tt.wantSize || c.RAMBanks != tt.wantBanks {
			t.Errorf("ram code %#02x, cart type %#02x: got (%d, %d), want (%d, %d)",
				tt.code, tt.cartType, c.RAMSize, c.RAMBanks, tt.wantSize, tt.wantBanks)
		}
	}
}

func TestTitleFilter(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain", []byte("ZELDA"), "ZELDA"},
		{"nul padded", append([]byte("METROID II"), 0, 0, 0, 0, 0, 0), "METROID II"},
		{"high bytes dropped", []byte{'A', 0x80, 'B', 0xFF, 'C'}, "ABC"},
		{"control bytes dropped", []byte{0x01, 'O', 0x1F, 'K', 0x7F}, "OK"},
		{"all garbage", []byte{0x00, 0x01, 0x9A, 0xFF}, ""},
		{"boundaries kept", []byte{0x20, 0x7E}, " ~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testImage(t)
			clear(data[titleAddr : titleAddr+titleLen])
			copy(data[titleAddr:], tt.raw)
			got := Decode(data).Title
			if got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
			for i := 0; i < len(got); i++ {
				if got[i] < 0x20 || got[i] > 0x7E {
					t.Errorf("Title %q contains non printable byte %#02x", got, got[i])
				}
			}
		})
	}
}

func TestLicensee(t *testing.T) {
	tests := []struct {
		name    string
		legacy  byte
		newCode []byte
		want    string
		wantOld bool
	}{
		{"legacy nintendo", 0x01, nil, "Nintendo", true},
		{"legacy none", 0x00, nil, "None", true},
		{"legacy ljn", 0xFF, nil, "LJN", true},
		{"unmapped legacy", 0xFE, nil, "UNKNOWN(0xfe)", true},
		{"new nintendo rnd1", 0x33, []byte("01"), "Nintendo R&D1", false},
		{"new lego", 0x33, []byte("5Q"), "Lego", false},
		{"unmapped new", 0x33, []byte("ZZ"), "UNKNOWN(0x5a5a,ZZ)", false},
		{"new code part garbage", 0x33, []byte{0x01, 'A'}, "UNKNOWN(0x0141,A)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testImage(t)
			data[oldLicCodeAddr] = tt.legacy
			copy(data[licCodeAddr:licCodeAddr+licCodeLen], tt.newCode)
			c := Decode(data)
			if c.Licensee != tt.want || c.OldLicensee != tt.wantOld {
				t.Errorf("licensee = (%q, %t), want (%q, %t)",
					c.Licensee, c.OldLicensee, tt.want, tt.wantOld)
			}
		})
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		code byte
		want string
	}{
		{0x00, "Japan"},
		{0x01, "Non-Japan (0x1)"},
		{0x42, "Non-Japan (0x42)"},
		{0xFF, "Non-Japan (0xff)"},
	}
	data := testImage(t)
	for _, tt := range tests {
		data[destCodeAddr] = tt.code
		if got := Decode(data).Region; got != tt.want {
			t.Errorf("code %#02x: Region = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCGBAndSGBFlags(t *testing.T) {
	data := testImage(t)

	cgbTests := []struct {
		flag byte
		want CGBSupport
	}{
		{0x80, CGBExtra},
		{0xC0, CGBOnly},
		{0x00, CGBNone},
		{0x40, CGBNone},
		{0xFF, CGBNone},
	}
	for _, tt := range cgbTests {
		data[cgbFlagAddr] = tt.flag
		if got := Decode(data).CGB; got != tt.want {
			t.Errorf("cgb flag %#02x: got %s, want %s", tt.flag, got, tt.want)
		}
	}

	sgbTests := []struct {
		flag byte
		want bool
	}{
		{0x03, true},
		{0x00, false},
		{0x01, false},
		{0xFF, false},
	}
	for _, tt := range sgbTests {
		data[sgbFlagAddr] = tt.flag
		if got := Decode(data).SGB; got != tt.want {
			t.Errorf("sgb flag %#02x: got %t, want %t", tt.flag, got, tt.want)
		}
	}
}

func TestIsWeird(t *testing.T) {
	t.Run("clean mbc5 record", func(t *testing.T) {
		if Decode(testImage(t)).IsWeird() {
			t.Error("fully resolved record reported weird")
		}
	})
	t.Run("unknown mapper", func(t *testing.T) {
		data := testImage(t)
		data[cartTypeAddr] = 0x04
		if !Decode(data).IsWeird() {
			t.Error("unknown mapper not reported weird")
		}
	})
	t.Run("unknown licensee", func(t *testing.T) {
		data := testImage(t)
		data[oldLicCodeAddr] = 0xFE
		if !Decode(data).IsWeird() {
			t.Error("unknown licensee not reported weird")
		}
	})
	t.Run("huge rom", func(t *testing.T) {
		data := testImage(t)
		data[romShiftAddr] = 9 // 1024 banks
		if !Decode(data).IsWeird() {
			t.Error("1024 rom banks not reported weird")
		}
	})
	t.Run("huge ram", func(t *testing.T) {
		c := Decode(testImage(t))
		c.RAMBanks = 17
		if !c.IsWeird() {
			t.Error("17 ram banks not reported weird")
		}
	})
}

func TestCartridgeString(t *testing.T) {
	c := Decode(testImage(t))
	want := "POKEMON RED: MBC5+RAM+Battery. ROM: 1048576 Bytes (64 Banks). " +
		"RAM 16384 Bytes (4 Banks). Lic. By Nintendo (Old Lic. Code)"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	data := testImage(t)
	data[cartTypeAddr] = 0x04
	if got := Decode(data).String(); !strings.HasSuffix(got, " !Weird!") {
		t.Errorf("String() = %q, want !Weird! marker", got)
	}
}

func TestPrintInfos(t *testing.T) {
	var sb strings.Builder
	Decode(testImage(t)).PrintInfos(&sb)
	out := sb.String()
	for _, want := range []string{
		"POKEMON RED",
		"MBC5+RAM+Battery",
		"1048576 bytes (64 banks)",
		"Nintendo (old code)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintInfos output missing %q:\n%s", want, out)
		}
	}
}

func TestReadRom(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "red.gb")
	if err := os.WriteFile(path, testImage(t), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := ReadRom(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "POKEMON RED" {
		t.Errorf("Title = %q, want POKEMON RED", c.Title)
	}

	short := filepath.Join(dir, "short.gb")
	if err := os.WriteFile(short, make([]byte, 64), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRom(short); !errors.Is(err, ErrTooSmall) {
		t.Errorf("err = %v, want ErrTooSmall", err)
	}

	if _, err := ReadRom(filepath.Join(dir, "missing.gb")); err == nil {
		t.Error("no error for missing file")
	}
}
