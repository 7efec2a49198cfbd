package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wavHeader builds a minimal RIFF/WAVE header followed by n bytes of silence.
func wavHeader(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+n))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16000))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(32000))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(n))
	buf.Write(make([]byte, n))
	return buf.Bytes()
}

func TestCapture_Wav(t *testing.T) {
	data := wavHeader(64)

	clip, err := Capture(bytes.NewReader(data), 0)
	require.NoError(t, err)

	assert.Equal(t, "audio/wav", clip.MIMEType)
	assert.Equal(t, len(data), clip.Size())
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), clip.Base64())
}

func TestCapture_Empty(t *testing.T) {
	_, err := Capture(strings.NewReader(""), 0)
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestCapture_TooLarge(t *testing.T) {
	_, err := Capture(bytes.NewReader(make([]byte, 11)), 10)
	assert.ErrorIs(t, err, ErrTooLarge)

	clip, err := Capture(bytes.NewReader(make([]byte, 10)), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, clip.Size())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("mic unplugged") }

func TestCapture_ReadError(t *testing.T) {
	_, err := Capture(failingReader{}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mic unplugged")
}

func TestDetectMIME_Fallback(t *testing.T) {
	assert.Equal(t, FallbackMIMEType, DetectMIME([]byte("plain text is not audio")))
	assert.Equal(t, FallbackMIMEType, DetectMIME(make([]byte, 32)))
}

func TestDetectMIME_Webm(t *testing.T) {
	// EBML header with DocType "webm"
	data := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81, 0x01, 0x42, 0xF2, 0x81, 0x04, 0x42, 0xF3, 0x81, 0x08, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm'}
	assert.Equal(t, "audio/webm", DetectMIME(data))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "audio/ogg", normalize("application/ogg"))
	assert.Equal(t, "audio/mpeg", normalize("audio/mpeg"))
	assert.Equal(t, "audio/webm", normalize("video/webm; codecs=opus"))
}
