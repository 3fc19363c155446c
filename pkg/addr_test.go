package pkg

import "testing"

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0000:00:1f.3")
	if err != nil {
		t.Fatalf("ParseAddress returned error: %v", err)
	}
	expected := Address{Domain: 0, Bus: 0, Device: 0x1f, Function: 3}
	if addr != expected {
		t.Errorf("expected %+v, got %+v", expected, addr)
	}
}

func TestAddressRoundTrip(t *testing.T) {
	testCases := []string{
		"0000:00:1f.3",
		"0000:01:00.0",
		"00ff:0a:0b.c",
		"abcd:ef:12.7",
	}
	for _, tc := range testCases {
		addr, err := ParseAddress(tc)
		if err != nil {
			t.Errorf("%q: parse error: %v", tc, err)
			continue
		}
		if s := addr.String(); s != tc {
			t.Errorf("round trip mismatch: %q -> %+v -> %q", tc, addr, s)
		}
		again, err := ParseAddress(addr.String())
		if err != nil {
			t.Errorf("%q: reparse error: %v", tc, err)
			continue
		}
		if again != addr {
			t.Errorf("reparse mismatch: %+v != %+v", again, addr)
		}
	}
}

func TestParseAddressInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"missing function", "0000:01:00"},
		{"trailing junk", "0000:01:00.0.1"},
		{"not an address", "invalid"},
		{"bad hex in function", "0000:01:00.g"},
		{"uppercase hex", "0000:01:0A.0"},
		{"wrong separator", "0000-01-00.0"},
		{"empty", ""},
	}
	for _, tc := range testCases {
		if _, err := ParseAddress(tc.input); err == nil {
			t.Errorf("%s: expected error for %q", tc.name, tc.input)
		}
	}
}
