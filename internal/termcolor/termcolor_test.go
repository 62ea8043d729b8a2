package termcolor

import (
	"os"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
		{"", ColorAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("mode: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriter_ColorNever(t *testing.T) {
	w := NewWriter(os.Stdout, ColorNever)
	if w.Enabled() {
		t.Errorf("ColorNever writer must be disabled")
	}
	if got := w.Red("text"); got != "text" {
		t.Errorf("disabled Red: got %q", got)
	}
}

func TestWriter_ColorAlways(t *testing.T) {
	w := NewWriter(os.Stdout, ColorAlways)
	if !w.Enabled() {
		t.Errorf("ColorAlways writer must be enabled")
	}
	if got := w.Green("ok"); got != "\033[32mok\033[0m" {
		t.Errorf("Green: got %q", got)
	}
	if got := w.BoldCyan("hd"); got != "\033[1;36mhd\033[0m" {
		t.Errorf("BoldCyan: got %q", got)
	}
}

func TestShouldColorize_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if ShouldColorize(os.Stdout) {
		t.Errorf("NO_COLOR must disable colorization")
	}
}
