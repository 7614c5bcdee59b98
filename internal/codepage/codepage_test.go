package codepage

import (
	"errors"
	"testing"
)

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare number", "437", "cp437"},
		{"cp prefix", "cp850", "cp850"},
		{"uppercase", "CP866", "cp866"},
		{"ibm prefix with dash", "IBM-852", "cp852"},
		{"dos prefix", "dos862", "cp862"},
		{"windows prefix with dash", "Windows-1250", "cp1250"},
		{"win prefix", "win1251", "cp1251"},
		{"underscore separator", "cp_1252", "cp1252"},
		{"surrounding whitespace", "  865  ", "cp865"},
		{"kamenicky short", "kam", "kam"},
		{"kamenicky long", "Kamenicky", "kam"},
		{"kamenicky keybcs2", "KEYBCS2", "kam"},
		{"mazovia short", "maz", "maz"},
		{"mazovia long", "MAZOVIA", "maz"},
		{"euro ruble page", "808", "cp808"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, err := Resolve(tt.input)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if cp.Name() != tt.want {
				t.Errorf("Resolve(%q).Name() = %q, want %q", tt.input, cp.Name(), tt.want)
			}
		})
	}
}

func TestResolveUnsupported(t *testing.T) {
	for _, input := range []string{"", "klingon", "cp775", "utf8", "iso-8859-2"} {
		if _, err := Resolve(input); err == nil {
			t.Errorf("Resolve(%q) expected error, got nil", input)
		}
	}
}

func TestEncodeASCIIIdentity(t *testing.T) {
	cp, err := Resolve("437")
	if err != nil {
		t.Fatalf("Resolve(437) error = %v", err)
	}

	text := "Hello, World! 0123456789\n"
	got, err := cp.Encode(text)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(got) != text {
		t.Errorf("Encode(%q) = %q, want byte-for-byte identity", text, got)
	}
}

func TestEncodeHighHalf(t *testing.T) {
	tests := []struct {
		page string
		char rune
		want byte
	}{
		{"cp437", 'é', 0x82},
		{"cp437", 'ß', 0xE1},
		{"cp437", 'Ω', 0xEA},
		{"cp850", 'é', 0x82},
		{"cp858", '€', 0xD5},
		{"cp866", 'А', 0x80},
		{"cp866", 'я', 0xEF},
		{"cp808", '€', 0xFD},
		{"cp1252", '€', 0x80},
		{"cp1250", 'Ł', 0xA3},
		{"kam", 'Č', 0x80},
		{"kam", 'ř', 0xA9},
		{"kam", 'é', 0x82},
		{"maz", 'ą', 0x86},
		{"maz", 'Ż', 0xA1},
		{"maz", 'ó', 0xA2},
	}

	for _, tt := range tests {
		t.Run(tt.page+"/"+string(tt.char), func(t *testing.T) {
			cp, err := Resolve(tt.page)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.page, err)
			}
			got, ok := cp.EncodeRune(tt.char)
			if !ok {
				t.Fatalf("EncodeRune(%q) not mapped in %s", tt.char, tt.page)
			}
			if got != tt.want {
				t.Errorf("EncodeRune(%q) = 0x%02X, want 0x%02X", tt.char, got, tt.want)
			}
		})
	}
}

func TestEncodeUnmappable(t *testing.T) {
	cp, err := Resolve("437")
	if err != nil {
		t.Fatalf("Resolve(437) error = %v", err)
	}

	_, err = cp.Encode("caf€ menu")
	if err == nil {
		t.Fatal("Encode() expected error for euro sign in cp437, got nil")
	}

	var unmappable *UnmappableError
	if !errors.As(err, &unmappable) {
		t.Fatalf("Encode() error = %T, want *UnmappableError", err)
	}
	if unmappable.Rune != '€' {
		t.Errorf("UnmappableError.Rune = %q, want %q", unmappable.Rune, '€')
	}
	if unmappable.Offset != 3 {
		t.Errorf("UnmappableError.Offset = %d, want 3", unmappable.Offset)
	}
	if unmappable.Page != "cp437" {
		t.Errorf("UnmappableError.Page = %q, want %q", unmappable.Page, "cp437")
	}
}

func TestEncodeUnmappableOffsetCountsRunes(t *testing.T) {
	cp, err := Resolve("437")
	if err != nil {
		t.Fatalf("Resolve(437) error = %v", err)
	}

	// The two-byte UTF-8 character before the euro sign must count as
	// one position.
	_, err = cp.Encode("né€")
	var unmappable *UnmappableError
	if !errors.As(err, &unmappable) {
		t.Fatalf("Encode() error = %v, want *UnmappableError", err)
	}
	if unmappable.Offset != 2 {
		t.Errorf("UnmappableError.Offset = %d, want 2", unmappable.Offset)
	}
}

func TestDecodeByte(t *testing.T) {
	cp437, err := Resolve("437")
	if err != nil {
		t.Fatalf("Resolve(437) error = %v", err)
	}
	cp1252, err := Resolve("1252")
	if err != nil {
		t.Fatalf("Resolve(1252) error = %v", err)
	}
	kam, err := Resolve("kam")
	if err != nil {
		t.Fatalf("Resolve(kam) error = %v", err)
	}

	tests := []struct {
		name   string
		cp     *Codepage
		b      byte
		want   rune
		wantOK bool
	}{
		{"ascii identity", cp437, 'A', 'A', true},
		{"cp437 e acute", cp437, 0x82, 'é', true},
		{"cp1252 euro", cp1252, 0x80, '€', true},
		{"cp1252 undefined slot", cp1252, 0x81, 0, false},
		{"kamenicky override", kam, 0x80, 'Č', true},
		{"kamenicky kept cp437 slot", kam, 0x81, 'ü', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cp.DecodeByte(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("DecodeByte(0x%02X) ok = %v, want %v", tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("DecodeByte(0x%02X) = %q, want %q", tt.b, got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Every defined high byte must decode to a code point that encodes
	// back to a byte with the same decoding. Duplicate assignments may
	// pick a different byte, but never a different character.
	for _, name := range Supported() {
		t.Run(name, func(t *testing.T) {
			cp, err := Resolve(name)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", name, err)
			}
			for b := 0x80; b <= 0xFF; b++ {
				r, ok := cp.DecodeByte(byte(b))
				if !ok {
					continue
				}
				enc, ok := cp.EncodeRune(r)
				if !ok {
					t.Fatalf("EncodeRune(%q) not mapped, but DecodeByte(0x%02X) produced it", r, b)
				}
				back, ok := cp.DecodeByte(enc)
				if !ok || back != r {
					t.Errorf("round trip 0x%02X -> %q -> 0x%02X -> %q broken", b, r, enc, back)
				}
			}
		})
	}
}

func TestHighHalfExposesUndefinedSlots(t *testing.T) {
	cp, err := Resolve("1252")
	if err != nil {
		t.Fatalf("Resolve(1252) error = %v", err)
	}

	high := cp.HighHalf()
	if high[0x80-0x80] != '€' {
		t.Errorf("HighHalf()[0x00] = %q, want euro sign", high[0])
	}
	if high[0x81-0x80] != 0 {
		t.Errorf("HighHalf()[0x01] = %q, want zero for undefined slot", high[1])
	}
}

func TestSupportedIsSorted(t *testing.T) {
	names := Supported()
	if len(names) == 0 {
		t.Fatal("Supported() returned no codepages")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Supported() not sorted: %q before %q", names[i-1], names[i])
		}
	}
	for _, want := range []string{"cp437", "cp808", "kam", "maz", "cp1252"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Supported() missing %q", want)
		}
	}
}
