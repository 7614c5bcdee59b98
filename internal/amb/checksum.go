package amb

// Checksum computes the BSD rotating checksum over data: rotate the
// accumulator right one bit, add the byte, keep sixteen bits. The
// reader uses it to spot corrupted records.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum = (sum >> 1) | ((sum & 1) << 15)
		sum += uint16(b)
	}
	return sum
}
