package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maastricht-university/moodtrack/mood"
)

func TestCameraFrame(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	frame, err := NewHTTP(time.Second).Camera(srv.URL).Frame(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), frame)
}

func TestCameraErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer empty.Close()
	_, err := NewHTTP(time.Second).Camera(empty.URL).Frame(context.Background())
	require.ErrorIs(t, err, ErrEmptyFrame)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer down.Close()
	_, err = NewHTTP(time.Second).Camera(down.URL).Frame(context.Background())
	require.ErrorContains(t, err, "503")
}

func emotionServer(t *testing.T, resp string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		b, err := io.ReadAll(f)
		assert.NoError(t, err)
		assert.Equal(t, "frame", string(b))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(resp))
	}))
}

func TestClassify(t *testing.T) {
	srv := emotionServer(t, `{"dominant_emotion":"happy","emotions":[{"label":"happy","score":0.9}]}`)
	defer srv.Close()

	l, err := NewHTTP(time.Second).EmotionService(srv.URL).Classify(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Equal(t, mood.Happy, l)
}

func TestClassifyNoFace(t *testing.T) {
	srv := emotionServer(t, `{"dominant_emotion":"neutral","face_detected":false}`)
	defer srv.Close()

	_, err := NewHTTP(time.Second).EmotionService(srv.URL).Classify(context.Background(), []byte("frame"))
	require.ErrorIs(t, err, ErrNoFace)
}

func TestClassifyUnknownLabel(t *testing.T) {
	srv := emotionServer(t, `{"dominant_emotion":"contempt"}`)
	defer srv.Close()

	_, err := NewHTTP(time.Second).EmotionService(srv.URL).Classify(context.Background(), []byte("frame"))
	require.ErrorIs(t, err, mood.ErrUnknownLabel)
}

func TestClassifyHonorsContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewHTTP(time.Minute).EmotionService(srv.URL).Classify(ctx, []byte("frame"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPublishTimeline(t *testing.T) {
	var got TimelineReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-timeline", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"ok","path":"/tmp/timeline.png"}`))
	}))
	defer srv.Close()

	cs := mood.ChartSeries{
		Times:  []string{"09:00:00", "09:00:01"},
		Levels: []int{0, 1},
		Ticks:  []string{"Happy", "Sad"},
	}
	require.NoError(t, NewHTTP(time.Second).Visualization(srv.URL).PublishTimeline(context.Background(), cs))
	require.Equal(t, cs.Times, got.Timestamps)
	require.Equal(t, cs.Levels, got.Levels)
	require.Equal(t, cs.Ticks, got.Ticks)
	require.Equal(t, "Mood Over Time", got.Title)
}
