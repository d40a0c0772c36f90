package mood

import (
	"errors"
	"fmt"
	"strings"
)

// Label is a single emotion tag, either a per-frame classification or the
// smoothed mood derived from a window of them.
type Label string

const (
	Unknown  Label = ""
	Happy    Label = "Happy"
	Sad      Label = "Sad"
	Angry    Label = "Angry"
	Surprise Label = "Surprise"
	Fear     Label = "Fear"
	Disgust  Label = "Disgust"
	Neutral  Label = "Neutral"
)

var ErrUnknownLabel = errors.New("unknown emotion label")

// Vocabulary lists every label the classifier may produce.
var Vocabulary = []Label{Happy, Sad, Angry, Surprise, Fear, Disgust, Neutral}

var emoji = map[Label]string{
	Happy:    "😄",
	Sad:      "😢",
	Angry:    "😠",
	Surprise: "😲",
	Fear:     "😨",
	Disgust:  "🤢",
	Neutral:  "😐",
}

// ParseLabel maps a model output such as "happy" or " SURPRISE " onto the
// vocabulary.
func ParseLabel(s string) (Label, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return Unknown, fmt.Errorf("%w: empty", ErrUnknownLabel)
	}
	l := Label(strings.ToUpper(norm[:1]) + norm[1:])
	if _, ok := emoji[l]; !ok {
		return Unknown, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
	return l, nil
}

// Emoji returns the pictogram shown next to the mood, or "" for Unknown.
func (l Label) Emoji() string { return emoji[l] }

func (l Label) String() string {
	if l == Unknown {
		return "Unknown"
	}
	return string(l)
}
