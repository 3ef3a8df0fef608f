package display

import (
	"testing"

	"go.uber.org/zap"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantW   int
		wantH   int
		wantOK  bool
	}{
		{name: "Full HD", value: "1920x1080", wantW: 1920, wantH: 1080, wantOK: true},
		{name: "Uppercase Separator", value: "3840X2160", wantW: 3840, wantH: 2160, wantOK: true},
		{name: "Spaces Tolerated", value: "1280 x 720", wantW: 1280, wantH: 720, wantOK: true},
		{name: "Missing Height", value: "1920", wantOK: false},
		{name: "Zero Width", value: "0x1080", wantOK: false},
		{name: "Garbage", value: "huge", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := parseResolution(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("parseResolution(%q) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("parseResolution(%q) = %dx%d, want %dx%d",
					tt.value, res.Width, res.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNewScreenResolution_Override(t *testing.T) {
	t.Setenv("PLAYER_SCREEN", "800x600")

	res := NewScreenResolution(zap.NewNop())
	if res.Width != 800 || res.Height != 600 {
		t.Errorf("Resolution = %dx%d, want override 800x600", res.Width, res.Height)
	}
}
