package analysis

import "strings"

// aiKeywords are substrings that fingerprint AI image generators when found
// (case-insensitive) in a descriptive metadata field. Matching is plain
// substring containment, not word-boundary: short entries like "ai" and
// "gan" can match inside longer words. That looseness is intentional and
// pinned by tests.
var aiKeywords = []string{
	"midjourney",
	"stable diffusion",
	"dall-e",
	"dalle",
	"ai",
	"artificial intelligence",
	"generated",
	"synthesis",
	"diffusion",
	"neural",
	"gan",
	"gpt",
	"openai",
	"runway",
	"firefly",
	"adobe firefly",
	"bing image creator",
	"craiyon",
	"bluewillow",
}

// generationParamKeys mark images carrying generator parameter payloads
// (InvokeAI "Dream", ComfyUI "prompt", SD webui "parameters").
var generationParamKeys = []string{"Dream", "prompt", "parameters"}

// aiMetadataKeys overlap with generationParamKeys on prompt/parameters, so
// an image can legitimately produce both fixed indicators. Do not dedupe.
var aiMetadataKeys = []string{"parameters", "prompt", "sd-metadata"}

const (
	indicatorGenerationParams = "Contains AI generation parameters"
	indicatorAIMetadata       = "Contains AI metadata fields"
)

// Classify scans the metadata mapping for AI-generation fingerprints.
// Pure and deterministic; an empty mapping yields a clean verdict.
//
// Indicator order is fixed: Software, Artist, UserComment, the generation
// parameter marker, ImageDescription, the AI metadata marker. Each keyword
// matched in a field appends its own indicator quoting the full original
// description, so one field can contribute several identical entries.
func Classify(metadata MetadataMapping) HeuristicVerdict {
	indicators := make([]string, 0, 4)

	scanField := func(name string) {
		tag, ok := metadata[name]
		if !ok || tag.Description == "" {
			return
		}
		lower := strings.ToLower(tag.Description)
		for _, kw := range aiKeywords {
			if strings.Contains(lower, kw) {
				indicators = append(indicators, name+": "+tag.Description)
			}
		}
	}

	scanField("Software")
	scanField("Artist")
	scanField("UserComment")

	for _, key := range generationParamKeys {
		if metadata.Present(key) {
			indicators = append(indicators, indicatorGenerationParams)
			break
		}
	}

	scanField("ImageDescription")

	for _, key := range aiMetadataKeys {
		if metadata.Present(key) {
			indicators = append(indicators, indicatorAIMetadata)
			break
		}
	}

	return HeuristicVerdict{
		IsAI:       len(indicators) > 0,
		Indicators: indicators,
	}
}
