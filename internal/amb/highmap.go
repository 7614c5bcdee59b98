package amb

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/randogoth/mambler/internal/article"
	"github.com/randogoth/mambler/internal/codepage"
)

// HighMap records which high-half byte values an archive actually
// uses and the code point each one displays as. It holds exactly the
// bytes that occur in the archive, nothing more.
type HighMap map[byte]rune

// DeriveHighMap scans every byte the archive will carry, article
// payloads and index alike, and collects the used high-half values.
func DeriveHighMap(chunks []article.Chunk, index []byte, cp *codepage.Codepage) HighMap {
	m := HighMap{}
	scan := func(data []byte) {
		for _, b := range data {
			if b < 0x80 {
				continue
			}
			if _, seen := m[b]; seen {
				continue
			}
			if r, ok := cp.DecodeByte(b); ok {
				m[b] = r
			}
		}
	}
	for _, ch := range chunks {
		scan(ch.Payload)
	}
	scan(index)
	return m
}

// Encode serializes the map in the reader's fixed shape: 128
// little-endian code points, one per byte from 0x80 through 0xFF.
// Slots for bytes the archive never uses hold zero.
func (m HighMap) Encode() []byte {
	out := make([]byte, 0, 256)
	for b := 0x80; b <= 0xFF; b++ {
		out = binary.LittleEndian.AppendUint16(out, uint16(m[byte(b)]))
	}
	return out
}

// MapPath returns where an archive's companion character map lives:
// next to the archive, with a .map extension.
func MapPath(archivePath string) string {
	ext := filepath.Ext(archivePath)
	return strings.TrimSuffix(archivePath, ext) + ".map"
}
