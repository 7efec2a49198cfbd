// Package audio turns an uploaded voice-note recording into a clip ready for transcription.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultLimit is the largest recording accepted (20 MiB).
const DefaultLimit int64 = 20 << 20

// FallbackMIMEType is assumed when the recording format cannot be detected.
const FallbackMIMEType = "audio/wav"

var (
	// ErrNoAudio is returned for an empty recording
	ErrNoAudio = errors.New("no audio recorded")
	// ErrTooLarge is returned when a recording exceeds the limit
	ErrTooLarge = errors.New("audio recording is too large")
)

// Clip is one finished recording.
type Clip struct {
	Data     []byte
	MIMEType string
}

// Capture reads a finished recording from r. At most limit bytes are accepted;
// a non-positive limit uses DefaultLimit.
func Capture(r io.Reader, limit int64) (*Clip, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoAudio
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}

	return &Clip{Data: data, MIMEType: DetectMIME(data)}, nil
}

// DetectMIME sniffs the audio container of data. Anything that is not
// recognised as audio (or a webm/ogg container) is reported as FallbackMIMEType.
func DetectMIME(data []byte) string {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if isAudioContainer(m.String()) {
			return normalize(mt.String())
		}
	}
	return FallbackMIMEType
}

func isAudioContainer(mime string) bool {
	return strings.HasPrefix(mime, "audio/") ||
		strings.HasPrefix(mime, "video/webm") ||
		strings.HasPrefix(mime, "video/mp4") ||
		strings.HasPrefix(mime, "application/ogg")
}

// normalize strips parameters and maps video containers to their audio form.
func normalize(mime string) string {
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	switch mime {
	case "video/webm":
		return "audio/webm"
	case "video/mp4":
		return "audio/mp4"
	case "application/ogg":
		return "audio/ogg"
	}
	return mime
}

// Base64 returns the clip encoded for transport.
func (c *Clip) Base64() string {
	return base64.StdEncoding.EncodeToString(c.Data)
}

// Size returns the clip length in bytes.
func (c *Clip) Size() int {
	return len(c.Data)
}
