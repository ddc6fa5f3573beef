package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvHeader lists the report columns, one per cartridge field plus the
// originating filename.
var csvHeader = []string{
	"Filename",
	"Title",
	"Cart Type",
	"Mapper Type",
	"ROM Banks",
	"RAM Banks",
	"RAM Size",
	"ROM Size",
	"Battery",
	"Timer",
	"Rumble",
	"Sensor",
	"Licensee",
	"Old Licensee Code",
	"CGB Functionality",
	"SGB Functionality",
	"Mask ROM Ver",
	"Region",
	"MD5 Hash",
	"Weird/Bad/Missing Data",
}

// WriteCSV writes one report row per entry, preceded by the header row.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(csvRow(e)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(e Entry) []string {
	c := e.Cart
	return []string{
		stripCommas(e.Filename),
		stripCommas(c.Title),
		c.Hardware.String(),
		c.Mapper.String(),
		strconv.Itoa(c.ROMBanks),
		strconv.Itoa(c.RAMBanks),
		fmt.Sprintf("%#x", c.RAMSize),
		fmt.Sprintf("%#x", c.ROMSize()),
		strconv.FormatBool(c.Battery),
		strconv.FormatBool(c.Timer),
		strconv.FormatBool(c.Rumble),
		strconv.FormatBool(c.Sensor),
		c.Licensee,
		strconv.FormatBool(c.OldLicensee),
		c.CGB.String(),
		strconv.FormatBool(c.SGB),
		strconv.Itoa(int(c.MaskROMVersion)),
		c.Region,
		c.MD5,
		strconv.FormatBool(c.IsWeird()),
	}
}

// Commas inside filename and title cells are stripped, not escaped.
func stripCommas(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
