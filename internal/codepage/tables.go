package codepage

import "golang.org/x/text/encoding/charmap"

// customHighHalf builds the decode tables for the pages golang.org/x/text
// does not ship. All three are patched variants of stock OEM pages.
func customHighHalf(name string) ([128]rune, bool) {
	switch name {
	case "cp808":
		return overlayHighHalf(charmap.CodePage866, cp808Overrides), true
	case "kam":
		return overlayHighHalf(charmap.CodePage437, kamenickyOverrides), true
	case "maz":
		return overlayHighHalf(charmap.CodePage437, mazoviaOverrides), true
	}
	return [128]rune{}, false
}

// overlayHighHalf copies the base page's high half and applies the
// given byte reassignments on top.
func overlayHighHalf(base *charmap.Charmap, overrides map[byte]rune) [128]rune {
	high := highHalfOf(base)
	for b, r := range overrides {
		high[b-0x80] = r
	}
	return high
}

// cp808Overrides turns CP866 into CP808: the currency sign at 0xFD
// becomes the euro sign.
var cp808Overrides = map[byte]rune{
	0xFD: '€',
}

// kamenickyOverrides rewrites the CP437 high half into the Kamenický
// brothers' Czech/Slovak layout (KEYBCS2). Bytes not listed keep
// their CP437 assignment.
var kamenickyOverrides = map[byte]rune{
	0x80: 'Č',
	0x83: 'ď',
	0x85: 'Ď',
	0x86: 'Ť',
	0x87: 'č',
	0x88: 'ě',
	0x89: 'Ě',
	0x8A: 'Ĺ',
	0x8B: 'Í',
	0x8C: 'ľ',
	0x8D: 'ĺ',
	0x8F: 'Á',
	0x91: 'ž',
	0x92: 'Ž',
	0x95: 'Ó',
	0x96: 'ů',
	0x97: 'Ú',
	0x98: 'ý',
	0x9B: 'Š',
	0x9C: 'Ľ',
	0x9D: 'Ý',
	0x9E: 'Ř',
	0x9F: 'ť',
	0xA4: 'ň',
	0xA5: 'Ň',
	0xA6: 'Ů',
	0xA7: 'Ô',
	0xA8: 'š',
	0xA9: 'ř',
	0xAA: 'ŕ',
	0xAB: 'Ŕ',
	0xAD: '§',
}

// mazoviaOverrides rewrites the CP437 high half into the Polish
// Mazovia layout. Bytes not listed keep their CP437 assignment.
var mazoviaOverrides = map[byte]rune{
	0x86: 'ą',
	0x8D: 'ć',
	0x8F: 'Ą',
	0x90: 'Ę',
	0x91: 'ę',
	0x92: 'ł',
	0x95: 'Ć',
	0x98: 'Ś',
	0x9C: 'Ł',
	0x9E: 'ś',
	0xA0: 'Ź',
	0xA1: 'Ż',
	0xA3: 'Ó',
	0xA4: 'ń',
	0xA5: 'Ń',
	0xA6: 'ź',
	0xA7: 'ż',
}
