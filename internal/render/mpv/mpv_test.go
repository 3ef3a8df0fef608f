package mpv

import (
	"slices"
	"testing"
	"time"

	"github.com/showgo/player/internal/domain"
)

func TestImageArgs(t *testing.T) {
	tests := []struct {
		name       string
		opts       domain.ImageOptions
		hideCursor bool
		want       []string
		absent     []string
	}{
		{
			name: "Cover Scaling",
			opts: domain.ImageOptions{Scaling: domain.ScaleCover},
			want: []string{"--fs", "--image-display-duration=inf", "--panscan=1.0"},
		},
		{
			name:   "Contain Uses Defaults",
			opts:   domain.ImageOptions{Scaling: domain.ScaleContain},
			want:   []string{"--fs"},
			absent: []string{"--panscan=1.0", "--keepaspect=no"},
		},
		{
			name: "Stretch",
			opts: domain.ImageOptions{Scaling: domain.ScaleStretch},
			want: []string{"--keepaspect=no"},
		},
		{
			name:       "Hidden Cursor",
			opts:       domain.ImageOptions{},
			hideCursor: true,
			want:       []string{"--cursor-autohide=always"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := imageArgs("/cache/a.jpg", tt.opts, tt.hideCursor)

			for _, flag := range tt.want {
				if !slices.Contains(args, flag) {
					t.Errorf("Args %v missing %q", args, flag)
				}
			}
			for _, flag := range tt.absent {
				if slices.Contains(args, flag) {
					t.Errorf("Args %v should not contain %q", args, flag)
				}
			}
			if args[len(args)-1] != "/cache/a.jpg" {
				t.Errorf("Media path must come last, got %v", args)
			}
		})
	}
}

func TestVideoArgs(t *testing.T) {
	tests := []struct {
		name   string
		opts   domain.VideoOptions
		start  time.Duration
		want   []string
		absent []string
	}{
		{
			name:   "Muted Looping",
			opts:   domain.VideoOptions{Muted: true, Loop: true},
			want:   []string{"--mute=yes", "--loop-file=inf", "--osc=no", "--keep-open=no"},
			absent: []string{"--start=0.000"},
		},
		{
			name:   "Unmuted With Controls",
			opts:   domain.VideoOptions{ShowControls: true},
			want:   []string{"--mute=no", "--osc=yes"},
			absent: []string{"--loop-file=inf"},
		},
		{
			name:  "Random Start Offset",
			opts:  domain.VideoOptions{Muted: true},
			start: 12500 * time.Millisecond,
			want:  []string{"--start=12.500"},
		},
		{
			name: "Cover Scaling",
			opts: domain.VideoOptions{Scaling: domain.ScaleCover},
			want: []string{"--panscan=1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := videoArgs("/cache/b.mp4", tt.opts, tt.start, false)

			for _, flag := range tt.want {
				if !slices.Contains(args, flag) {
					t.Errorf("Args %v missing %q", args, flag)
				}
			}
			for _, flag := range tt.absent {
				if slices.Contains(args, flag) {
					t.Errorf("Args %v should not contain %q", args, flag)
				}
			}
			if args[len(args)-1] != "/cache/b.mp4" {
				t.Errorf("Media path must come last, got %v", args)
			}
		})
	}
}

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    time.Duration
		wantErr bool
	}{
		{
			name:   "Plain Seconds",
			output: "95.433000\n",
			want:   95433 * time.Millisecond,
		},
		{
			name:   "Integer Seconds",
			output: "20",
			want:   20 * time.Second,
		},
		{
			name:    "Unknown Length Stream",
			output:  "N/A\n",
			wantErr: true,
		},
		{
			name:    "Empty Output",
			output:  "",
			wantErr: true,
		},
		{
			name:    "Negative",
			output:  "-3.5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseProbeOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseProbeOutput(%q) expected error, got %v", tt.output, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbeOutput(%q) error = %v", tt.output, err)
			}
			if got != tt.want {
				t.Errorf("parseProbeOutput(%q) = %v, want %v", tt.output, got, tt.want)
			}
		})
	}
}
