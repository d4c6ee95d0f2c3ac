package metadata

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// maxTextChunk caps how much text is taken from a single chunk. Generator
// payloads (ComfyUI workflow JSON in particular) can run to megabytes.
const maxTextChunk = 1 << 20

// pngTextChunks walks the PNG chunk stream and collects tEXt, zTXt and iTXt
// entries keyed by their chunk keyword. Generator tools stash prompts and
// parameters here under keys like "parameters", "prompt", "sd-metadata"
// and "Dream". Malformed streams yield whatever was readable.
func pngTextChunks(data []byte) map[string]string {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil
	}

	out := map[string]string{}
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		length := binary.BigEndian.Uint32(rest[:4])
		if length > uint32(len(rest)-12) {
			break
		}
		typ := string(rest[4:8])
		body := rest[8 : 8+length]
		rest = rest[12+length:]

		switch typ {
		case "tEXt":
			if key, text, ok := splitKeyword(body); ok {
				out[key] = clipText(string(text))
			}
		case "zTXt":
			key, comp, ok := splitKeyword(body)
			// One method byte (0 = zlib) precedes the compressed text.
			if ok && len(comp) > 1 && comp[0] == 0 {
				if text := inflate(comp[1:]); text != "" {
					out[key] = text
				}
			}
		case "iTXt":
			if key, text, ok := parseITXt(body); ok {
				out[key] = text
			}
		case "IEND":
			return out
		}
	}
	return out
}

// splitKeyword separates a chunk body into its NUL-terminated keyword and
// the remainder.
func splitKeyword(body []byte) (string, []byte, bool) {
	i := bytes.IndexByte(body, 0)
	if i <= 0 {
		return "", nil, false
	}
	return string(body[:i]), body[i+1:], true
}

// parseITXt handles the iTXt layout: keyword, compression flag, compression
// method, language tag, translated keyword, then the (optionally zlib
// compressed) UTF-8 text.
func parseITXt(body []byte) (string, string, bool) {
	key, rest, ok := splitKeyword(body)
	if !ok || len(rest) < 2 {
		return "", "", false
	}
	compressed := rest[0] == 1
	rest = rest[2:]
	for range 2 { // language tag, translated keyword
		i := bytes.IndexByte(rest, 0)
		if i < 0 {
			return "", "", false
		}
		rest = rest[i+1:]
	}
	if compressed {
		text := inflate(rest)
		return key, text, text != ""
	}
	return key, clipText(string(rest)), true
}

func inflate(comp []byte) string {
	zr, err := zlib.NewReader(bytes.NewReader(comp))
	if err != nil {
		return ""
	}
	defer zr.Close()
	text, err := io.ReadAll(io.LimitReader(zr, maxTextChunk))
	if err != nil && len(text) == 0 {
		return ""
	}
	return string(text)
}

func clipText(s string) string {
	if len(s) > maxTextChunk {
		return s[:maxTextChunk]
	}
	return s
}
