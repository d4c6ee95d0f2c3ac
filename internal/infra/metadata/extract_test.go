package metadata

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nattawatp/imagelens/internal/domain/analysis"
)

// encodePNG renders a tiny PNG of the given size.
func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// withTextChunk splices a tEXt chunk in front of IEND.
func withTextChunk(t *testing.T, data []byte, key, text string) []byte {
	t.Helper()
	iend := bytes.LastIndex(data, []byte("IEND"))
	require.Positive(t, iend)
	insertAt := iend - 4 // back up over the length field

	body := append(append([]byte(key), 0), []byte(text)...)
	chunk := make([]byte, 0, len(body)+12)
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(body)))
	chunk = append(chunk, []byte("tEXt")...)
	chunk = append(chunk, body...)
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:insertAt]...)
	out = append(out, chunk...)
	out = append(out, data[insertAt:]...)
	return out
}

func TestExtract_Dimensions(t *testing.T) {
	t.Parallel()

	src := NewSource()
	mapping, dims, err := src.Extract(encodePNG(t, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, analysis.Dimensions{Width: 3, Height: 2}, dims)
	assert.NotNil(t, mapping)
}

func TestExtract_PNGTextChunks(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 2, 2)
	data = withTextChunk(t, data, "parameters", "Steps: 20, Sampler: DPM++ 2M")
	data = withTextChunk(t, data, "prompt", `{"3":{"class_type":"KSampler"}}`)

	src := NewSource()
	mapping, _, err := src.Extract(data)
	require.NoError(t, err)

	require.True(t, mapping.Present("parameters"))
	require.True(t, mapping.Present("prompt"))
	assert.Equal(t, "Steps: 20, Sampler: DPM++ 2M", mapping["parameters"].Description)

	// generator text chunks feed straight into the classifier
	verdict := analysis.Classify(mapping)
	assert.True(t, verdict.IsAI)
	assert.Contains(t, verdict.Indicators, "Contains AI generation parameters")
	assert.Contains(t, verdict.Indicators, "Contains AI metadata fields")
}

func TestExtract_DecodeFailureFatal(t *testing.T) {
	t.Parallel()

	src := NewSource()
	for _, data := range [][]byte{nil, {}, []byte("definitely not an image")} {
		_, _, err := src.Extract(data)
		require.Error(t, err)
		assert.ErrorIs(t, err, analysis.ErrDecode)
	}
}

func TestPNGTextChunks_NonPNG(t *testing.T) {
	t.Parallel()

	assert.Nil(t, pngTextChunks([]byte("JFIF...")))
}

func TestPNGTextChunks_TruncatedStream(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 2, 2)
	data = withTextChunk(t, data, "Dream", "a fox in the snow -s 50")

	// chop mid-chunk: readable prefix still parses
	got := pngTextChunks(data[:len(data)-6])
	assert.Equal(t, "a fox in the snow -s 50", got["Dream"])
}
