package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/maastricht-university/moodtrack/mood"
)

var ErrNoFace = errors.New("no face detected")

// --- Emotion (/analyze) ---
type EmoScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
type EmoResp struct {
	Emotions        []EmoScore `json:"emotions"`
	DominantEmotion string     `json:"dominant_emotion"`
	FaceDetected    *bool      `json:"face_detected,omitempty"`
}

// EmotionService classifies frames with a remote facial emotion model.
type EmotionService struct {
	h   *HTTP
	url string
}

func (h *HTTP) EmotionService(url string) *EmotionService {
	return &EmotionService{h: h, url: url}
}

// Analyze uploads frame and returns the raw model response.
func (e *EmotionService) Analyze(ctx context.Context, frame []byte) (*EmoResp, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, err
	}
	if _, err = fw.Write(frame); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url+"/analyze", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion %s: %s", resp.Status, string(body))
	}

	var out EmoResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emotion decode: %w", err)
	}
	return &out, nil
}

// Classify returns the dominant emotion in frame.
func (e *EmotionService) Classify(ctx context.Context, frame []byte) (mood.Label, error) {
	out, err := e.Analyze(ctx, frame)
	if err != nil {
		return mood.Unknown, err
	}
	if out.FaceDetected != nil && !*out.FaceDetected {
		return mood.Unknown, ErrNoFace
	}
	l, err := mood.ParseLabel(out.DominantEmotion)
	if err != nil {
		return mood.Unknown, fmt.Errorf("emotion: %w", err)
	}
	return l, nil
}
