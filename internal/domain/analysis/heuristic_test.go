package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(desc string) MetadataTag {
	return MetadataTag{Description: desc, Value: desc}
}

func TestClassify_EmptyMapping(t *testing.T) {
	t.Parallel()

	for _, m := range []MetadataMapping{nil, {}} {
		v := Classify(m)
		assert.False(t, v.IsAI)
		assert.Empty(t, v.Indicators)
		assert.NotNil(t, v.Indicators)
	}
}

func TestClassify_NoRecognizedFields(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{
		"Make":  tag("Canon"),
		"Model": tag("EOS R5"),
	})
	assert.False(t, v.IsAI)
	assert.Empty(t, v.Indicators)
}

func TestClassify_SoftwareMidjourney(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{"Software": tag("Midjourney v5")})
	assert.True(t, v.IsAI)
	assert.Contains(t, v.Indicators, "Software: Midjourney v5")
}

func TestClassify_IsAIDerivedFromIndicators(t *testing.T) {
	t.Parallel()

	mappings := []MetadataMapping{
		nil,
		{"Software": tag("GIMP 2.10")},
		{"Software": tag("DALL-E 3")},
		{"Artist": tag("somebody")},
		{"prompt": tag("a cat in space")},
		{"UserComment": tag("neural style transfer")},
	}
	for _, m := range mappings {
		v := Classify(m)
		assert.Equal(t, len(v.Indicators) > 0, v.IsAI)
	}
}

// A single field matching two keywords yields two indicator entries, both
// quoting the identical original description. Quirk kept on purpose.
func TestClassify_DoubleKeywordSingleField(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{"Software": tag("ai generated artwork")})
	require.True(t, v.IsAI)

	count := 0
	for _, ind := range v.Indicators {
		if ind == "Software: ai generated artwork" {
			count++
		}
	}
	// "ai" and "generated" both match
	assert.Equal(t, 2, count)
}

// prompt + parameters trip both fixed indicators; the overlap stays.
func TestClassify_ParameterIndicatorsOverlap(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{
		"prompt":     tag("masterpiece, 8k"),
		"parameters": tag("Steps: 30, Sampler: Euler a"),
	})
	assert.Contains(t, v.Indicators, "Contains AI generation parameters")
	assert.Contains(t, v.Indicators, "Contains AI metadata fields")
}

func TestClassify_IndicatorOrder(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{
		"Software":         tag("Midjourney"),
		"Artist":           tag("runway studio"),
		"UserComment":      tag("diffusion model output"),
		"Dream":            tag(`{"prompt":"a fox"}`),
		"ImageDescription": tag("generated landscape"),
		"sd-metadata":      tag("{}"),
	})

	require.Equal(t, []string{
		"Software: Midjourney",
		"Artist: runway studio",
		"UserComment: diffusion model output",
		"Contains AI generation parameters",
		"ImageDescription: generated landscape",
		"Contains AI metadata fields",
	}, v.Indicators)
}

// Substring semantics, not word boundaries: "ai" fires inside "paint".
// The false-positive risk on short keywords is part of the contract.
func TestClassify_SubstringNotWordBoundary(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{"Software": tag("paint.net")})
	require.True(t, v.IsAI)
	assert.Equal(t, []string{"Software: paint.net"}, v.Indicators)
}

func TestClassify_EmptyDescriptionIgnored(t *testing.T) {
	t.Parallel()

	v := Classify(MetadataMapping{"Software": {Description: "", Value: 42}})
	assert.False(t, v.IsAI)
}

func TestMetadataMapping_Present(t *testing.T) {
	t.Parallel()

	m := MetadataMapping{
		"prompt":   {Description: "a cat"},
		"empty":    {Description: ""},
		"valued":   {Description: "", Value: map[string]any{"k": "v"}},
		"emptyStr": {Description: "", Value: ""},
		"falsy":    {Description: "", Value: false},
	}
	assert.True(t, m.Present("prompt"))
	assert.True(t, m.Present("valued"))
	assert.False(t, m.Present("empty"))
	assert.False(t, m.Present("emptyStr"))
	assert.False(t, m.Present("falsy"))
	assert.False(t, m.Present("missing"))
}
