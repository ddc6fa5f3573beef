package gb

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ParseBool is the deliberately lenient parser used for the string encoded
// record fields: any string containing "true", case-insensitive, is true;
// everything else, garbage included, is false.
func ParseBool(s string) bool {
	return strings.Contains(strings.ToLower(s), "true")
}

// MarshalJSON encodes the record as a single entry mapping keyed by title,
// with every leaf rendered as a string. The derived rom_size_bytes and
// weird fields are written for consumers but ignored when decoding.
func (c Cartridge) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	c.encode(&e)
	return e.Bytes(), nil
}

func (c Cartridge) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart(c.Title)
	e.ObjStart()
	e.FieldStart("rom_banks")
	e.Str(strconv.Itoa(c.ROMBanks))
	e.FieldStart("rom_size_bytes")
	e.Str(strconv.Itoa(c.ROMSize()))
	e.FieldStart("ram_banks")
	e.Str(strconv.Itoa(c.RAMBanks))
	e.FieldStart("ram_size_bytes")
	e.Str(strconv.Itoa(c.RAMSize))
	e.FieldStart("cgb_func")
	e.Str(c.CGB.String())
	e.FieldStart("sgb_flag")
	e.Str(strconv.FormatBool(c.SGB))
	e.FieldStart("region")
	e.Str(c.Region)
	e.FieldStart("mask_rom_ver")
	e.Str(strconv.Itoa(int(c.MaskROMVersion)))
	e.FieldStart("licensee")
	e.Str(c.Licensee)
	e.FieldStart("old_lic_flag")
	e.Str(strconv.FormatBool(c.OldLicensee))
	e.FieldStart("md5sum")
	e.Str(c.MD5)
	e.FieldStart("hardware")
	c.Hardware.encode(e)
	e.FieldStart("weird")
	e.Str(strconv.FormatBool(c.IsWeird()))
	e.ObjEnd()
	e.ObjEnd()
}

// UnmarshalJSON reverses MarshalJSON. Booleans go through ParseBool; an
// unknown mapper or CGB name is an error.
func (c *Cartridge) UnmarshalJSON(data []byte) error {
	return c.decode(jx.DecodeBytes(data))
}

func (c *Cartridge) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, title string) error {
		c.Title = title
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "rom_banks":
				c.ROMBanks, err = decInt(d, key)
			case "ram_banks":
				c.RAMBanks, err = decInt(d, key)
			case "ram_size_bytes":
				c.RAMSize, err = decInt(d, key)
			case "mask_rom_ver":
				var v int
				if v, err = decInt(d, key); err == nil {
					c.MaskROMVersion = uint8(v)
				}
			case "cgb_func":
				var s string
				if s, err = decStr(d, key); err == nil {
					cgb, ok := cgbByName[s]
					if !ok {
						return errors.Errorf("unknown cgb_func %q", s)
					}
					c.CGB = cgb
				}
			case "sgb_flag":
				c.SGB, err = decBool(d, key)
			case "old_lic_flag":
				c.OldLicensee, err = decBool(d, key)
			case "region":
				c.Region, err = decStr(d, key)
			case "licensee":
				c.Licensee, err = decStr(d, key)
			case "md5sum":
				c.MD5, err = decStr(d, key)
			case "hardware":
				err = c.Hardware.decode(d)
			default:
				// rom_size_bytes and weird are derived, never stored
				err = d.Skip()
			}
			return err
		})
	})
}

// MarshalJSON encodes the hardware profile as a flat mapping with every
// field rendered as a string.
func (hw Hardware) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	hw.encode(&e)
	return e.Bytes(), nil
}

func (hw Hardware) encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("mapper")
	e.Str(hw.Mapper.String())
	e.FieldStart("timer")
	e.Str(strconv.FormatBool(hw.Timer))
	e.FieldStart("ram")
	e.Str(strconv.FormatBool(hw.RAM))
	e.FieldStart("rumble")
	e.Str(strconv.FormatBool(hw.Rumble))
	e.FieldStart("sensor")
	e.Str(strconv.FormatBool(hw.Sensor))
	e.FieldStart("battery")
	e.Str(strconv.FormatBool(hw.Battery))
	e.ObjEnd()
}

// UnmarshalJSON reverses MarshalJSON.
func (hw *Hardware) UnmarshalJSON(data []byte) error {
	return hw.decode(jx.DecodeBytes(data))
}

func (hw *Hardware) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "mapper":
			var s string
			if s, err = decStr(d, key); err == nil {
				m, ok := mapperByName[s]
				if !ok {
					return errors.Errorf("unknown mapper %q", s)
				}
				hw.Mapper = m
			}
		case "timer":
			hw.Timer, err = decBool(d, key)
		case "ram":
			hw.RAM, err = decBool(d, key)
		case "rumble":
			hw.Rumble, err = decBool(d, key)
		case "sensor":
			hw.Sensor, err = decBool(d, key)
		case "battery":
			hw.Battery, err = decBool(d, key)
		default:
			err = d.Skip()
		}
		return err
	})
}

func decStr(d *jx.Decoder, key string) (string, error) {
	s, err := d.Str()
	if err != nil {
		return "", errors.Wrap(err, key)
	}
	return s, nil
}

func decInt(d *jx.Decoder, key string) (int, error) {
	s, err := decStr(d, key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return v, nil
}

func decBool(d *jx.Decoder, key string) (bool, error) {
	s, err := decStr(d, key)
	if err != nil {
		return false, err
	}
	return ParseBool(s), nil
}
