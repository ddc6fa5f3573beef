package catalog

import (
	"io"

	"github.com/go-faster/jx"
)

// WriteJSON writes the report as a JSON array of
// {"filename": ..., "cart": {...}} objects, where cart is the
// title-keyed dictionary form of the cartridge.
func WriteJSON(w io.Writer, entries []Entry) error {
	var e jx.Encoder

	e.ArrStart()
	for _, entry := range entries {
		cart, err := entry.Cart.MarshalJSON()
		if err != nil {
			return err
		}

		e.ObjStart()
		e.FieldStart("filename")
		e.Str(entry.Filename)
		e.FieldStart("cart")
		e.Raw(cart)
		e.ObjEnd()
	}
	e.ArrEnd()

	_, err := w.Write(e.Bytes())
	return err
}
