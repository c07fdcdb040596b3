package scene

import (
	"strings"
	"testing"
)

func TestStylePresentation(t *testing.T) {
	tests := []struct {
		style     Style
		wantColor string
		wantFont  string
	}{
		{StyleKey, "black", "draw"},
		{StyleValue, "blue", "mono"},
		{StyleFallback, "red", "draw"},
		{"", "black", "draw"},
	}

	for _, tt := range tests {
		if got := tt.style.Color(); got != tt.wantColor {
			t.Errorf("Style(%q).Color() = %q, want %q", tt.style, got, tt.wantColor)
		}
		if got := tt.style.Font(); got != tt.wantFont {
			t.Errorf("Style(%q).Font() = %q, want %q", tt.style, got, tt.wantFont)
		}
	}
}

func TestNewIDs(t *testing.T) {
	a, b := NewShapeID(), NewShapeID()
	if a == b {
		t.Errorf("NewShapeID() returned %q twice", a)
	}
	if !strings.HasPrefix(string(a), "shape:") {
		t.Errorf("NewShapeID() = %q, want shape: prefix", a)
	}
	if id := NewAssetID(); !strings.HasPrefix(string(id), "asset:") {
		t.Errorf("NewAssetID() = %q, want asset: prefix", id)
	}
}
