package gesture

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Frame is one captured camera image.
type Frame struct {
	Data      []byte
	MediaType string
}

// FrameSource produces camera frames for the gesture pilot.
type FrameSource interface {
	Capture(ctx context.Context) (Frame, error)
}

const (
	snapshotTimeout = 10 * time.Second
	maxFrameBytes   = 8 << 20
)

// SnapshotSource fetches frames from an HTTP camera snapshot endpoint
// (IP webcam apps expose these; so does motion/mjpg-streamer).
type SnapshotSource struct {
	url    string
	client *http.Client
}

// NewSnapshotSource creates a frame source for the given snapshot URL.
func NewSnapshotSource(url string) *SnapshotSource {
	return &SnapshotSource{
		url:    url,
		client: &http.Client{Timeout: snapshotTimeout},
	}
}

// Capture fetches one frame.
func (s *SnapshotSource) Capture(ctx context.Context) (Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Frame{}, fmt.Errorf("build snapshot request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Frame{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Frame{}, fmt.Errorf("snapshot endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return Frame{}, fmt.Errorf("read snapshot body: %w", err)
	}
	if len(data) == 0 {
		return Frame{}, fmt.Errorf("snapshot endpoint returned an empty body")
	}

	mediaType := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mediaType, ';'); i != -1 {
		mediaType = mediaType[:i]
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" || mediaType == "application/octet-stream" {
		// Cameras that don't label their output overwhelmingly serve JPEG.
		mediaType = "image/jpeg"
	}

	return Frame{Data: data, MediaType: mediaType}, nil
}
