package amb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/randogoth/mambler/internal/article"
)

const (
	// Magic identifies an archive file.
	Magic = "AMB1"
	// HeaderSize is the fixed header length before the directory.
	HeaderSize = 84
	// DirEntrySize is the length of one directory entry.
	DirEntrySize = 20
	// TitleSize is the length of the header's title field.
	TitleSize = 64
	// MaxChunkPayload is the container's hard per-article limit; the
	// directory length field is sixteen bits.
	MaxChunkPayload = math.MaxUint16
	// FlagHighMap marks archives whose build emitted a companion
	// character map.
	FlagHighMap = 0x0001

	dirNameSize = 12
)

// Pack serializes an archive: header, directory, article payloads in
// directory order, then the optional index payload. Identical inputs
// produce identical bytes.
func Pack(title string, chunks []article.Chunk, index []byte, highMap bool) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, errors.New("archive must contain at least one article")
	}
	if len(chunks) > math.MaxUint16 {
		return nil, fmt.Errorf("archive has %d articles, more than the directory can hold", len(chunks))
	}

	payloadSize := 0
	for _, ch := range chunks {
		if err := validateName(ch.Name); err != nil {
			return nil, err
		}
		if len(ch.Payload) > MaxChunkPayload {
			return nil, fmt.Errorf("article %s is %d bytes, over the %d-byte record limit", ch.Name, len(ch.Payload), MaxChunkPayload)
		}
		payloadSize += len(ch.Payload)
	}

	dirSize := DirEntrySize * len(chunks)
	total := HeaderSize + dirSize + payloadSize + len(index)
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("archive is %d bytes, more than its offsets can address", total)
	}
	out := make([]byte, 0, total)

	// Header.
	out = append(out, Magic...)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(chunks)))
	var flags uint16
	if highMap {
		flags |= FlagHighMap
	}
	out = binary.LittleEndian.AppendUint16(out, flags)
	var indexOffset uint32
	if len(index) > 0 {
		indexOffset = uint32(HeaderSize + dirSize + payloadSize)
	}
	out = binary.LittleEndian.AppendUint32(out, indexOffset)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(index)))
	out = binary.LittleEndian.AppendUint16(out, Checksum(index))
	out = binary.LittleEndian.AppendUint16(out, 0) // reserved
	titleField := EncodeTitle(title)
	out = append(out, titleField[:]...)

	// Directory.
	offset := uint32(HeaderSize + dirSize)
	for _, ch := range chunks {
		var name [dirNameSize]byte
		copy(name[:], ch.Name)
		out = append(out, name[:]...)
		out = binary.LittleEndian.AppendUint32(out, offset)
		out = binary.LittleEndian.AppendUint16(out, uint16(len(ch.Payload)))
		out = binary.LittleEndian.AppendUint16(out, Checksum(ch.Payload))
		offset += uint32(len(ch.Payload))
	}

	// Article payloads, then the index.
	for _, ch := range chunks {
		out = append(out, ch.Payload...)
	}
	out = append(out, index...)
	return out, nil
}

// EncodeTitle folds a display title into the header's fixed field:
// characters outside ASCII are dropped, the rest is truncated to the
// field size and NUL padded.
func EncodeTitle(title string) [TitleSize]byte {
	var out [TitleSize]byte
	n := 0
	for _, r := range title {
		if r >= utf8.RuneSelf {
			continue
		}
		if n == TitleSize {
			break
		}
		out[n] = byte(r)
		n++
	}
	return out
}

// validateName enforces the directory's 8.3-style name field: one to
// twelve bytes of uppercase letters, digits, underscores and dots.
func validateName(name string) error {
	if name == "" || len(name) > dirNameSize {
		return fmt.Errorf("article name %q does not fit the directory's %d-byte field", name, dirNameSize)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '.' {
			continue
		}
		return fmt.Errorf("article name %q contains invalid character %q", name, c)
	}
	return nil
}
