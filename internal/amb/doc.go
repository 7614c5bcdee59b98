// Package amb serializes finished builds into the reader's archive
// format. An archive is a single file with a fixed header, a flat
// article directory, the article payloads, and an optional trailing
// full-text index:
//
//	offset  size  field
//	0       4     magic "AMB1"
//	4       2     article count
//	6       2     flags (bit 0: companion character map emitted)
//	8       4     index offset, 0 when absent
//	12      4     index length, 0 when absent
//	16      2     index checksum
//	18      2     reserved, 0
//	20      64    title, ASCII, NUL padded
//	84      20*n  directory entries
//	...           article payloads, then the index
//
// Each directory entry is a 12-byte NUL-padded article name, a 4-byte
// payload offset from the start of the file, a 2-byte payload length
// and a 2-byte checksum. All integers are little-endian.
//
// Characters above 0x7F depend on the build's codepage; the companion
// .map file written next to the archive tells the reader what each
// high byte displays as.
package amb
