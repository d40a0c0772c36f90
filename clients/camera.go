package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrEmptyFrame = errors.New("empty frame")

// maxFrameBytes bounds a single snapshot read.
const maxFrameBytes = 16 << 20

// Camera reads still frames from a snapshot endpoint such as the one exposed
// by most IP cameras and webcam bridges.
type Camera struct {
	h   *HTTP
	url string
}

func (h *HTTP) Camera(url string) *Camera { return &Camera{h: h, url: url} }

// Frame fetches one encoded image.
func (c *Camera) Frame(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("camera %s: %s", resp.Status, string(body))
	}

	frame, err := io.ReadAll(io.LimitReader(resp.Body, maxFrameBytes))
	if err != nil {
		return nil, fmt.Errorf("camera read: %w", err)
	}
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	return frame, nil
}
