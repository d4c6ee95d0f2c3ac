package metadata

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	// Dimension probing for the formats the viewer accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/bep/imagemeta"

	"github.com/nattawatp/imagelens/internal/domain/analysis"
)

// Source decodes embedded metadata (EXIF/IPTC/XMP plus PNG text chunks)
// and probes pixel dimensions from raw image bytes.
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

// Extract returns the tag mapping and dimensions for the image.
// Failure to size the image is fatal (analysis.ErrDecode); a sized image
// with no readable tag blocks simply yields a sparse mapping.
func (s *Source) Extract(data []byte) (analysis.MetadataMapping, analysis.Dimensions, error) {
	if len(data) == 0 {
		return nil, analysis.Dimensions{}, fmt.Errorf("%w: empty input", analysis.ErrDecode)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, analysis.Dimensions{}, fmt.Errorf("%w: %v", analysis.ErrDecode, err)
	}
	dims := analysis.Dimensions{Width: cfg.Width, Height: cfg.Height}

	mapping := analysis.MetadataMapping{}

	// Tag blocks are best effort: GIFs carry none, and a corrupt EXIF
	// segment should not sink an image we can already size.
	if format == "jpeg" || format == "png" || format == "tiff" || format == "webp" {
		_, _ = imagemeta.Decode(imagemeta.Options{
			R:       bytes.NewReader(data),
			Sources: imagemeta.EXIF | imagemeta.IPTC | imagemeta.XMP,
			HandleTag: func(ti imagemeta.TagInfo) error {
				desc := tagValueString(ti.Value)
				if desc == "" {
					return nil
				}
				if _, exists := mapping[ti.Tag]; !exists {
					mapping[ti.Tag] = analysis.MetadataTag{Description: desc, Value: ti.Value}
				}
				return nil
			},
		})
	}

	if format == "png" {
		for key, text := range pngTextChunks(data) {
			if _, exists := mapping[key]; !exists {
				mapping[key] = analysis.MetadataTag{Description: text, Value: text}
			}
		}
	}

	return mapping, dims, nil
}

// tagValueString renders a tag value for display. XMP values may arrive as
// string slices from alt/seq lists.
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []string:
		if len(val) > 0 {
			return strings.TrimSpace(val[0])
		}
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return strings.TrimSpace(s)
			}
		}
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case int, int64, uint16, uint32, float32, float64, bool:
		return fmt.Sprint(val)
	}
	return ""
}
