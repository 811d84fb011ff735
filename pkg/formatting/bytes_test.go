package formatting_test

import (
	"testing"

	"github.com/JaimeStill/verum/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "1024", 1024, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "1KB", 1024, false},
		{"megabytes", "50MB", 50 << 20, false},
		{"gigabytes", "2GB", 2 << 30, false},
		{"lowercase unit", "10mb", 10 << 20, false},
		{"fractional", "1.5KB", 1536, false},
		{"with space", "100 MB", 100 << 20, false},
		{"surrounding whitespace", "  50MB  ", 50 << 20, false},
		{"zero", "0", 0, false},
		{"empty string", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
		{"overflow", "9000000EB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBytes(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name      string
		n         int64
		precision int
		want      string
	}{
		{"zero", 0, 2, "0 B"},
		{"negative", -10, 0, "0 B"},
		{"bytes", 500, 0, "500 B"},
		{"one KB", 1024, 0, "1 KB"},
		{"50 MB", 50 << 20, 0, "50 MB"},
		{"fractional MB", 1536 << 10, 1, "1.5 MB"},
		{"negative precision clamped to zero", 1024, -1, "1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.want {
				t.Errorf("FormatBytes(%d, %d) = %q, want %q", tt.n, tt.precision, got, tt.want)
			}
		})
	}
}

func TestSizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     formatting.Size
		wantText string
	}{
		{"whole unit", "50MB", 50 << 20, "50 MB"},
		{"inexact unit falls back to bytes", "1.5KB", 1536, "1536"},
		{"bare bytes", "100", 100, "100 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s formatting.Size
			if err := s.UnmarshalText([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalText(%q): %v", tt.input, err)
			}
			if s != tt.want {
				t.Errorf("size = %d, want %d", s, tt.want)
			}

			text, err := s.MarshalText()
			if err != nil {
				t.Fatalf("MarshalText: %v", err)
			}
			if string(text) != tt.wantText {
				t.Errorf("MarshalText() = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestSizeUnmarshalInvalid(t *testing.T) {
	var s formatting.Size
	if err := s.UnmarshalText([]byte("lots")); err == nil {
		t.Error("expected error")
	}
}
