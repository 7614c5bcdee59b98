// Package codepage converts Unicode text to the single-byte OEM and
// Windows encodings used by the target readers. Each supported page is
// modeled as an explicit bidirectional table: the low half (0x00-0x7F)
// is always ASCII, the high half (0x80-0xFF) comes from the page.
// Encoding is strict; a character without a byte assignment is an
// error, never a silent substitution.
package codepage

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Codepage is an immutable bidirectional mapping between Unicode code
// points and single-byte values for one target encoding.
type Codepage struct {
	name string
	// decode[i] is the code point assigned to byte 0x80+i. A zero
	// marks a slot the page leaves undefined.
	decode [128]rune
	encode map[rune]byte
}

// UnmappableError reports a character of the source text that has no
// byte assignment in the selected codepage. Offset is the rune index
// into the text handed to Encode.
type UnmappableError struct {
	Page   string
	Rune   rune
	Offset int
}

func (e *UnmappableError) Error() string {
	return fmt.Sprintf("character %q (U+%04X) cannot be encoded in codepage %s", e.Rune, e.Rune, e.Page)
}

// charmapPages lists the stock pages backed by golang.org/x/text
// tables, keyed by canonical name.
var charmapPages = map[string]*charmap.Charmap{
	"cp437":  charmap.CodePage437,
	"cp850":  charmap.CodePage850,
	"cp852":  charmap.CodePage852,
	"cp855":  charmap.CodePage855,
	"cp858":  charmap.CodePage858,
	"cp860":  charmap.CodePage860,
	"cp862":  charmap.CodePage862,
	"cp863":  charmap.CodePage863,
	"cp865":  charmap.CodePage865,
	"cp866":  charmap.CodePage866,
	"cp874":  charmap.Windows874,
	"cp1250": charmap.Windows1250,
	"cp1251": charmap.Windows1251,
	"cp1252": charmap.Windows1252,
	"cp1253": charmap.Windows1253,
	"cp1254": charmap.Windows1254,
	"cp1255": charmap.Windows1255,
	"cp1256": charmap.Windows1256,
	"cp1257": charmap.Windows1257,
	"cp1258": charmap.Windows1258,
}

// Resolve looks up a codepage by name. Names are matched liberally:
// "437", "CP437", "ibm-437" and "DOS_437" all resolve to cp437, and
// the custom DOS pages kam (Kamenický) and maz (Mazovia) are matched
// by their long names too.
func Resolve(name string) (*Codepage, error) {
	canonical := normalizeName(name)
	if high, ok := customHighHalf(canonical); ok {
		return newCodepage(canonical, high), nil
	}
	if m, ok := charmapPages[canonical]; ok {
		return newCodepage(canonical, highHalfOf(m)), nil
	}
	return nil, fmt.Errorf("unsupported codepage %q (supported: %s)", name, strings.Join(Supported(), ", "))
}

// Supported returns the canonical names of every codepage Resolve
// accepts, sorted.
func Supported() []string {
	names := make([]string, 0, len(charmapPages)+3)
	for name := range charmapPages {
		names = append(names, name)
	}
	names = append(names, "cp808", "kam", "maz")
	sort.Strings(names)
	return names
}

// Name returns the codepage's canonical name.
func (cp *Codepage) Name() string {
	return cp.name
}

// Encode converts text to the codepage's byte encoding, one byte per
// character. Encoding is strict: the first character without a byte
// assignment aborts the conversion with an UnmappableError.
func (cp *Codepage) Encode(text string) ([]byte, error) {
	out := make([]byte, 0, len(text))
	offset := 0
	for _, r := range text {
		b, ok := cp.EncodeRune(r)
		if !ok {
			return nil, &UnmappableError{Page: cp.name, Rune: r, Offset: offset}
		}
		out = append(out, b)
		offset++
	}
	return out, nil
}

// EncodeRune returns the byte assigned to r, or false when the page
// has none.
func (cp *Codepage) EncodeRune(r rune) (byte, bool) {
	if r >= 0 && r < 0x80 {
		return byte(r), true
	}
	b, ok := cp.encode[r]
	return b, ok
}

// DecodeByte returns the code point assigned to b, or false when the
// page leaves b undefined.
func (cp *Codepage) DecodeByte(b byte) (rune, bool) {
	if b < 0x80 {
		return rune(b), true
	}
	r := cp.decode[b-0x80]
	return r, r != 0
}

// HighHalf returns the decode table for bytes 0x80 through 0xFF.
// Slots the page leaves undefined hold zero.
func (cp *Codepage) HighHalf() [128]rune {
	return cp.decode
}

// newCodepage builds the encode map from a high-half decode table.
// When two bytes decode to the same code point the lower byte wins,
// and code points below 0x80 never enter the map; the ASCII identity
// mapping always takes precedence.
func newCodepage(name string, high [128]rune) *Codepage {
	cp := &Codepage{name: name, decode: high}
	cp.encode = make(map[rune]byte, len(high))
	for i, r := range high {
		if r < 0x80 {
			continue
		}
		if _, exists := cp.encode[r]; exists {
			continue
		}
		cp.encode[r] = byte(0x80 + i)
	}
	return cp
}

// highHalfOf extracts the 0x80-0xFF decode table from a charmap page.
func highHalfOf(m *charmap.Charmap) [128]rune {
	var high [128]rune
	for i := range high {
		r := m.DecodeByte(byte(0x80 + i))
		if r == utf8.RuneError {
			continue
		}
		high[i] = r
	}
	return high
}

// normalizeName folds the many spellings of a codepage name ("CP437",
// "ibm-437", "437", "Windows_1250") onto one canonical form.
func normalizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "-", "")
	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, " ", "")

	switch name {
	case "kam", "kamenicky", "keybcs2":
		return "kam"
	case "maz", "mazovia":
		return "maz"
	}

	for _, prefix := range []string{"cp", "ibm", "dos", "windows", "win"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok && isDigits(rest) {
			return "cp" + rest
		}
	}
	if isDigits(name) {
		return "cp" + name
	}
	return name
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
