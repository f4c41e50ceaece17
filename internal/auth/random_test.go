package auth

import "testing"

func TestNewSessionToken(t *testing.T) {
	first, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if len(first) != sessionTokenBytes*2 {
		t.Fatalf("expected %d hex chars, got %d", sessionTokenBytes*2, len(first))
	}
	second, err := NewSessionToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if first == second {
		t.Fatal("expected unique tokens")
	}
}

func TestNewNumericCode(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		code, err := NewNumericCode(length)
		if err != nil {
			t.Fatalf("new code: %v", err)
		}
		if len(code) != length {
			t.Fatalf("expected length %d, got %q", length, code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}

func TestNewNumericCodeDefaultsLength(t *testing.T) {
	code, err := NewNumericCode(0)
	if err != nil {
		t.Fatalf("new code: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected default length 6, got %q", code)
	}
}

func TestFormatCodeTTL(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{30, "30s"},
		{60, "1m0s"},
		{90, "1m30s"},
		{180, "3m0s"},
	}
	for _, tc := range cases {
		if got := FormatCodeTTL(tc.seconds); got != tc.want {
			t.Fatalf("FormatCodeTTL(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
