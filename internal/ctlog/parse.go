package ctlog

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-faster/jx"
)

const nameValueKey = "name_value"

// parseEntries decodes a JSON array of certificate entries and returns the
// normalized names in first-seen order without duplicates. Entries lacking
// a string name_value are skipped. Any structural error fails the whole
// body.
func parseEntries(r io.Reader) ([]string, error) {
	d := jx.Decode(r, 64*1024)

	seen := make(map[string]struct{})
	names := make([]string, 0)

	err := d.Arr(func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != nameValueKey || d.Next() != jx.String {
				return d.Skip()
			}
			value, err := d.Str()
			if err != nil {
				return err
			}
			for _, raw := range strings.Split(value, "\n") {
				name := Normalize(raw)
				if name == "" {
					continue
				}
				if _, ok := seen[name]; ok {
					continue
				}
				seen[name] = struct{}{}
				names = append(names, name)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return names, nil
}

// Normalize removes every "*." wildcard marker from name and trims
// surrounding whitespace. Case is preserved.
func Normalize(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "*.", ""))
}
