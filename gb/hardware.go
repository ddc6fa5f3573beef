package gb

import "strings"

// Mapper names the memory bank controller family of a cartridge.
type Mapper uint8

const (
	Unknown Mapper = iota
	ROMOnly
	ROMRAM
	MBC1
	MBC2
	MBC3
	MBC4
	MBC5
	MBC6
	MBC7
	MMM01
	HuC1
	HuC3
	TAMA5
	GOWIN // never selected by a cartridge type byte, kept for completeness
	GBCamera
)

var mapperNames = [...]string{
	Unknown:  "UNKNOWN",
	ROMOnly:  "ROM ONLY",
	ROMRAM:   "ROM+RAM",
	MBC1:     "MBC1",
	MBC2:     "MBC2",
	MBC3:     "MBC3",
	MBC4:     "MBC4",
	MBC5:     "MBC5",
	MBC6:     "MBC6",
	MBC7:     "MBC7",
	MMM01:    "MMM01",
	HuC1:     "HuC1",
	HuC3:     "HuC3",
	TAMA5:    "TAMA5",
	GOWIN:    "GOWIN",
	GBCamera: "Game Boy Camera",
}

var mapperByName = func() map[string]Mapper {
	m := make(map[string]Mapper, len(mapperNames))
	for i, name := range mapperNames {
		m[name] = Mapper(i)
	}
	return m
}()

func (m Mapper) String() string {
	if int(m) >= len(mapperNames) {
		return mapperNames[Unknown]
	}
	return mapperNames[m]
}

// Hardware describes what a cartridge carries besides the ROM chip itself:
// the memory bank controller and the auxiliary hardware it declares.
type Hardware struct {
	Mapper  Mapper
	Timer   bool
	RAM     bool
	Rumble  bool
	Sensor  bool
	Battery bool
}

// hardwareByType maps the cartridge type byte (header offset 0x147) to the
// declared hardware. The assignment is non-contiguous and full of
// exceptions (0x09 is plain ROM despite sitting among the RAM variants), so
// it is a table, not a formula.
var hardwareByType = map[byte]Hardware{
	0x00: {Mapper: ROMOnly},
	0x01: {Mapper: MBC1},
	0x02: {Mapper: MBC1, RAM: true},
	0x03: {Mapper: MBC1, RAM: true, Battery: true},
	0x05: {Mapper: MBC2},
	0x06: {Mapper: MBC2, Battery: true},
	0x08: {Mapper: ROMRAM, RAM: true},
	0x09: {Mapper: ROMOnly},
	0x0B: {Mapper: MMM01},
	0x0C: {Mapper: MMM01, RAM: true},
	0x0D: {Mapper: MMM01, RAM: true, Battery: true},
	0x0F: {Mapper: MBC3, Timer: true, Battery: true},
	0x10: {Mapper: MBC3, Timer: true, RAM: true, Battery: true},
	0x11: {Mapper: MBC3},
	0x12: {Mapper: MBC3, RAM: true},
	0x13: {Mapper: MBC3, RAM: true, Battery: true},
	0x15: {Mapper: MBC4},
	0x16: {Mapper: MBC4, RAM: true},
	0x17: {Mapper: MBC4, RAM: true, Battery: true},
	0x19: {Mapper: MBC5},
	0x1A: {Mapper: MBC5, RAM: true},
	0x1B: {Mapper: MBC5, RAM: true, Battery: true},
	0x1C: {Mapper: MBC5, Rumble: true},
	0x1D: {Mapper: MBC5, Rumble: true, RAM: true},
	0x1E: {Mapper: MBC5, Rumble: true, RAM: true, Battery: true},
	0x20: {Mapper: MBC6},
	0x22: {Mapper: MBC7, Rumble: true, Sensor: true, RAM: true, Battery: true},
	0xFC: {Mapper: GBCamera},
	0xFD: {Mapper: TAMA5},
	0xFE: {Mapper: HuC3},
	0xFF: {Mapper: HuC1, RAM: true, Battery: true},
}

// HardwareFor translates the cartridge type byte into the hardware profile
// it declares. Total over all byte values: unassigned codes yield an
// Unknown mapper with every flag cleared.
func HardwareFor(code byte) Hardware {
	return hardwareByType[code] // the map zero value is exactly that
}

func (hw Hardware) String() string {
	var sb strings.Builder
	sb.WriteString(hw.Mapper.String())
	if hw.RAM {
		sb.WriteString("+RAM")
	}
	if hw.Timer {
		sb.WriteString("+Timer")
	}
	if hw.Rumble {
		sb.WriteString("+Rumble")
	}
	if hw.Battery {
		sb.WriteString("+Battery")
	}
	if hw.Sensor {
		sb.WriteString("+Sensor")
	}
	return sb.String()
}
