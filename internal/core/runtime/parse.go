package runtime

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pagewright/pagewright/pkg/patch"
)

// CodeResponse is the structured view of a code agent reply.
type CodeResponse struct {
	Explanation string
	Code        string
	Filename    string
	Language    string
	// Update is set when the reply carried incremental operations instead
	// of a full file.
	Update *patch.UpdateBatch
}

// Non-greedy on purpose: the array ends at the first ']' after the marker,
// matching how the assistant is instructed to format the payload.
var operationsPattern = regexp.MustCompile(`(?s)INCREMENTAL_OPERATIONS:\s*(\[.*?\])`)

// parseCodeResponse decodes the sectioned reply format of the code agent.
// When allowIncremental is set and the reply carries a valid
// INCREMENTAL_OPERATIONS payload, the result holds an UpdateBatch; a payload
// that fails to decode or validate falls back to full-code parsing. When the
// sectioned format is absent entirely, fenced markdown code blocks are used,
// and as a last resort the whole reply is treated as code.
func parseCodeResponse(text string, allowIncremental bool, fallbackFilename, fallbackLanguage string, logger Logger) CodeResponse {
	response := CodeResponse{
		Filename: fallbackFilename,
		Language: fallbackLanguage,
	}
	if response.Filename == "" {
		response.Filename = "index.html"
	}
	if response.Language == "" {
		response.Language = "html"
	}

	if allowIncremental {
		if update, ok := parseOperations(text, logger); ok {
			response.Explanation = sectionBetween(text, "EXPLANATION:", "INCREMENTAL_OPERATIONS:")
			update.Explanation = response.Explanation
			response.Update = update
			return response
		}
	}

	if strings.Contains(text, "CODE:") {
		response.Explanation = sectionBetween(text, "EXPLANATION:", "CODE:")
		code := afterMarker(text, "CODE:")
		if strings.Contains(code, "FILENAME:") {
			rest := afterMarker(code, "FILENAME:")
			code = sectionBetween(code, "", "FILENAME:")
			if strings.Contains(rest, "LANGUAGE:") {
				response.Filename = sectionBetween(rest, "", "LANGUAGE:")
				if lang := afterMarker(rest, "LANGUAGE:"); lang != "" {
					response.Language = strings.ToLower(lang)
				}
			} else if rest != "" {
				response.Filename = rest
			}
		}
		response.Code = stripFence(code)
		if response.Code != "" {
			return response
		}
	}

	// No sectioned reply; try fenced markdown blocks before giving up.
	if blocks, err := ExtractCodeBlocks([]byte(text)); err == nil && len(blocks) > 0 {
		response.Code = strings.TrimRight(blocks[0].Content, "\n")
		if blocks[0].Lang != "" {
			response.Language = strings.ToLower(blocks[0].Lang)
		}
		if response.Explanation == "" {
			response.Explanation = blocks[0].Hint
		}
		return response
	}

	response.Code = strings.TrimSpace(text)
	if response.Explanation == "" {
		response.Explanation = "Generated code based on your request"
	}
	return response
}

// parseOperations extracts and validates the INCREMENTAL_OPERATIONS payload.
func parseOperations(text string, logger Logger) (*patch.UpdateBatch, bool) {
	match := operationsPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}
	raw := match[1]

	if err := validateOperations(raw); err != nil {
		logger.Warn("incremental operations failed schema validation", F("err", err))
		return nil, false
	}

	var operations []patch.EditOperation
	if err := json.Unmarshal([]byte(raw), &operations); err != nil {
		logger.Warn("incremental operations failed to decode", F("err", err))
		return nil, false
	}
	if len(operations) == 0 {
		return nil, false
	}

	return &patch.UpdateBatch{
		Type:       patch.BatchIncremental,
		Operations: operations,
		Impact:     patch.ImpactMedium,
	}, true
}

// sectionBetween returns the trimmed text between a start marker and an end
// marker. An empty start means the beginning of text; a missing end marker
// extends the section to the end.
func sectionBetween(text, start, end string) string {
	if start != "" {
		idx := strings.Index(text, start)
		if idx == -1 {
			return ""
		}
		text = text[idx+len(start):]
	}
	if end != "" {
		if idx := strings.Index(text, end); idx != -1 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

func afterMarker(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx == -1 {
		return ""
	}
	return strings.TrimSpace(text[idx+len(marker):])
}

// stripFence unwraps code that the model wrapped in a markdown fence despite
// the sectioned format.
func stripFence(code string) string {
	trimmed := strings.TrimSpace(code)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx != -1 {
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
