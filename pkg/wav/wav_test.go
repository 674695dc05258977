package wav

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Header(t *testing.T) {
	pcm := make([]byte, 480)
	out := Encode(pcm, DefaultFormat)

	require.Len(t, out, HeaderSize+len(pcm))
	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(out[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]))
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(out[40:44]))
}

func TestDataURI(t *testing.T) {
	uri := DataURI(Encode([]byte{1, 2}, DefaultFormat))
	require.True(t, strings.HasPrefix(uri, "data:audio/wav;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:audio/wav;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, decoded[HeaderSize:])
}

func TestFormatFromMIME(t *testing.T) {
	assert.Equal(t, 16000, FormatFromMIME("audio/L16;codec=pcm;rate=16000").SampleRate)
	assert.Equal(t, 24000, FormatFromMIME("audio/L16").SampleRate)
	assert.Equal(t, 24000, FormatFromMIME("audio/pcm; rate=abc").SampleRate)
}
