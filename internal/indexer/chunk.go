package indexer

import "strings"

const (
	chunkSize    = 1000
	chunkOverlap = 200
)

// chunkText splits text into overlapping chunks, preferring to break on
// whitespace near the chunk boundary so words stay intact.
func chunkText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			// back up to the nearest space, but not past half the chunk
			cut := end
			for cut > start+chunkSize/2 && !isSpace(runes[cut-1]) {
				cut--
			}
			if cut > start+chunkSize/2 {
				end = cut
			}
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
		start = end - chunkOverlap
	}
	return chunks
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
