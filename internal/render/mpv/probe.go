package mpv

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probeDuration asks ffprobe for the media's natural duration
func probeDuration(ctx context.Context, url string) (time.Duration, error) {
	binary, err := exec.LookPath("ffprobe")
	if err != nil {
		return 0, fmt.Errorf("ffprobe not available: %w", err)
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		url)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w (output: %s)",
			err, strings.TrimSpace(string(output)))
	}

	return parseProbeOutput(string(output))
}

// parseProbeOutput converts ffprobe's single duration line into a
// Duration. Streams without a known length report "N/A".
func parseProbeOutput(output string) (time.Duration, error) {
	trimmed := strings.TrimSpace(output)
	secs, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable ffprobe duration %q: %w", trimmed, err)
	}
	if secs < 0 {
		return 0, fmt.Errorf("negative ffprobe duration %q", trimmed)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
