// Package gb decodes the header of Game Boy and Game Boy Color ROM images.
package gb

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kaybarkbark/gbcater/log"
)

// ErrTooSmall reports a file too short to hold the cartridge header.
var ErrTooSmall = errors.New("rom image too small")

// Cartridge header layout. The title field originally ran through 0x143;
// late cartridges reuse its tail for the manufacturer code and the CGB flag.
const (
	titleAddr      = 0x134
	titleLen       = 16
	mfgCodeAddr    = 0x13F
	mfgCodeLen     = 4
	cgbFlagAddr    = 0x143
	licCodeAddr    = 0x144
	licCodeLen     = 2
	sgbFlagAddr    = 0x146
	cartTypeAddr   = 0x147
	romShiftAddr   = 0x148
	ramCodeAddr    = 0x149
	destCodeAddr   = 0x14A
	oldLicCodeAddr = 0x14B
	maskROMVerAddr = 0x14C

	// HeaderSize is the minimum buffer length Decode accepts: every field
	// above must be readable.
	HeaderSize = maskROMVerAddr + 1

	romBankSize = 0x4000
	ramBankSize = 0x1000
)

const unknownStr = "UNKNOWN"

// CGBSupport is the level of Game Boy Color support a cartridge declares.
type CGBSupport uint8

const (
	CGBNone CGBSupport = iota
	CGBExtra
	CGBOnly
)

var cgbNames = [...]string{
	CGBNone:  "None",
	CGBExtra: "Extra CGB Functions",
	CGBOnly:  "CGB Only",
}

var cgbByName = func() map[string]CGBSupport {
	m := make(map[string]CGBSupport, len(cgbNames))
	for i, name := range cgbNames {
		m[name] = CGBSupport(i)
	}
	return m
}()

func (c CGBSupport) String() string {
	if int(c) >= len(cgbNames) {
		return cgbNames[CGBNone]
	}
	return cgbNames[c]
}

// Cartridge holds the metadata decoded from a ROM image header. A value is
// assembled once by Decode and not modified afterwards.
type Cartridge struct {
	Hardware
	ROMBanks       int
	RAMBanks       int
	RAMSize        int // bytes
	Title          string
	CGB            CGBSupport
	SGB            bool
	Region         string
	MaskROMVersion uint8
	Licensee       string
	OldLicensee    bool // licensee came from the legacy single byte code
	MD5            string
}

// ReadRom loads and decodes the ROM image at path.
func ReadRom(path string) (Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Cartridge{}, err
	}
	if len(data) < HeaderSize {
		return Cartridge{}, fmt.Errorf("%w: header needs %#x bytes, got %#x", ErrTooSmall, HeaderSize, len(data))
	}

	log.ModGB.DebugZ("read rom").
		String("path", path).
		Int("size", len(data)).
		Hex8("type", data[cartTypeAddr]).
		End()
	return Decode(data), nil
}

// Decode assembles the Cartridge described by a raw ROM image. data must
// contain the whole header (HeaderSize bytes at least); a shorter buffer is
// a caller contract violation and panics with an out of range error.
func Decode(data []byte) Cartridge {
	hw := HardwareFor(data[cartTypeAddr])
	ramSize, ramBanks := ramSizing(data[ramCodeAddr], hw.Mapper)
	lic, old := licensee(data)
	sum := md5.Sum(data)

	return Cartridge{
		Hardware:       hw,
		ROMBanks:       romBanks(data[romShiftAddr]),
		RAMBanks:       ramBanks,
		RAMSize:        ramSize,
		Title:          printableOnly(data[titleAddr : titleAddr+titleLen]),
		CGB:            cgbSupport(data[cgbFlagAddr]),
		SGB:            data[sgbFlagAddr] == 0x03,
		Region:         region(data[destCodeAddr]),
		MaskROMVersion: data[maskROMVerAddr],
		Licensee:       lic,
		OldLicensee:    old,
		MD5:            hex.EncodeToString(sum[:]),
	}
}

// ROMSize is always derived from the bank count, never stored.
func (c Cartridge) ROMSize() int {
	return c.ROMBanks * romBankSize
}

// IsWeird reports metadata that is off or suspicious: an unknown mapper or
// publisher, or bank counts no production cartridge ever shipped with. It
// is recomputed on every call.
func (c Cartridge) IsWeird() bool {
	return c.Hardware.Mapper == Unknown ||
		strings.Contains(c.Licensee, unknownStr) ||
		c.ROMBanks > 512 ||
		c.RAMBanks > 16
}

func (c Cartridge) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s. ROM: %d Bytes (%d Banks). RAM %d Bytes (%d Banks). Lic. By %s",
		c.Title, c.Hardware, c.ROMSize(), c.ROMBanks, c.RAMSize, c.RAMBanks, c.Licensee)
	if c.OldLicensee {
		sb.WriteString(" (Old Lic. Code)")
	}
	if c.IsWeird() {
		sb.WriteString(" !Weird!")
	}
	return sb.String()
}

// PrintInfos writes a human readable description of the header to w.
func (c Cartridge) PrintInfos(w io.Writer) {
	lic := c.Licensee
	if c.OldLicensee {
		lic += " (old code)"
	}
	fmt.Fprintf(w, "Title:        %s\n", c.Title)
	fmt.Fprintf(w, "Cart type:    %s\n", c.Hardware)
	fmt.Fprintf(w, "Mapper:       %s\n", c.Hardware.Mapper)
	fmt.Fprintf(w, "ROM:          %d bytes (%d banks)\n", c.ROMSize(), c.ROMBanks)
	fmt.Fprintf(w, "RAM:          %d bytes (%d banks)\n", c.RAMSize, c.RAMBanks)
	fmt.Fprintf(w, "CGB:          %s\n", c.CGB)
	fmt.Fprintf(w, "SGB:          %t\n", c.SGB)
	fmt.Fprintf(w, "Region:       %s\n", c.Region)
	fmt.Fprintf(w, "Licensee:     %s\n", lic)
	fmt.Fprintf(w, "Mask ROM ver: %d\n", c.MaskROMVersion)
	fmt.Fprintf(w, "MD5:          %s\n", c.MD5)
	fmt.Fprintf(w, "Weird:        %t\n", c.IsWeird())
}

// romBanks doubles per size code. Codes past 61 would shift the count out
// of the int range; they are clamped so the count stays a huge positive.
func romBanks(shift byte) int {
	return 2 << min(int(shift), 61)
}

// ramSizing resolves the RAM code byte. The codes map to non-obvious bank
// layouts, so a table it is. MBC2 cartridges have no RAM chip at all: the
// controller holds 256 bytes internally (512 four-bit cells), counted as a
// single bank whatever the header code says.
func ramSizing(code byte, m Mapper) (size, banks int) {
	if m == MBC2 {
		return 256, 1
	}
	switch code {
	case 2:
		return 2048, 1
	case 3:
		return ramBankSize * 4, 4
	case 4:
		return ramBankSize * 16, 16
	case 5:
		return ramBankSize * 8, 8
	}
	return 0, 0
}

func cgbSupport(flag byte) CGBSupport {
	switch flag {
	case 0x80:
		return CGBExtra
	case 0xC0:
		return CGBOnly
	}
	return CGBNone
}

func region(code byte) string {
	if code == 0 {
		return "Japan"
	}
	return fmt.Sprintf("Non-Japan (%#x)", code)
}

// licensee resolves the publisher name. The legacy single byte code at
// 0x14B is authoritative unless it holds the 0x33 sentinel, in which case
// the two character code at 0x144 selects from the new style table. Codes
// missing from either table resolve to an UNKNOWN placeholder, not an
// error.
func licensee(data []byte) (name string, legacy bool) {
	code := data[oldLicCodeAddr]
	name, ok := oldLicensees[code]
	switch {
	case !ok:
		return fmt.Sprintf("%s(%#x)", unknownStr, code), true
	case code == 0x33:
		raw := data[licCodeAddr : licCodeAddr+licCodeLen]
		cleaned := printableOnly(raw)
		if name, ok := newLicensees[cleaned]; ok {
			return name, false
		}
		return fmt.Sprintf("%s(0x%02x%02x,%s)", unknownStr, raw[0], raw[1], cleaned), false
	}
	return name, true
}

// printableOnly keeps the bytes in the printable ASCII range (0x20-0x7E)
// and drops the rest, without substitution.
func printableOnly(data []byte) string {
	var sb strings.Builder
	for _, b := range data {
		if b >= 0x20 && b <= 0x7E {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}
