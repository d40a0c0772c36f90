package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/maastricht-university/moodtrack/mood"
)

// --- Visualization ---
type TimelineReq struct {
	Timestamps []string `json:"timestamps"`
	Levels     []int    `json:"levels"`
	Ticks      []string `json:"ticks"`
	Title      string   `json:"title,omitempty"`
}

type TimelineResp struct{ Status, Path string }

// Visualization pushes the mood timeline to a chart rendering service.
type Visualization struct {
	h   *HTTP
	url string
}

func (h *HTTP) Visualization(url string) *Visualization {
	return &Visualization{h: h, url: url}
}

func (v *Visualization) GenerateTimeline(ctx context.Context, req TimelineReq) (*TimelineResp, error) {
	b, _ := json.Marshal(req)
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url+"/generate-timeline", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := v.h.c.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("viz timeline %s: %s", resp.Status, string(body))
	}

	var out TimelineResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("viz timeline decode: %w", err)
	}
	return &out, nil
}

// PublishTimeline sends an encoded chart series titled "Mood Over Time".
func (v *Visualization) PublishTimeline(ctx context.Context, cs mood.ChartSeries) error {
	_, err := v.GenerateTimeline(ctx, TimelineReq{
		Timestamps: cs.Times,
		Levels:     cs.Levels,
		Ticks:      cs.Ticks,
		Title:      "Mood Over Time",
	})
	return err
}
