package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national mobile", "07700 900123", "+447700900123"},
		{"already e164", "+447700900123", "+447700900123"},
		{"international format", "0044 7700 900123", "+447700900123"},
		{"landline with spaces", "020 7946 0999", "+442079460999"},
		{"foreign number kept", "+31 6 12345678", "+31612345678"},
		{"invalid returned trimmed", "  not-a-number  ", "not-a-number"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input); got != tt.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
