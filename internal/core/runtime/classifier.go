package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// classify asks the model to route the prompt to the chat or code agent. Any
// failure (transport, malformed JSON, schema mismatch) falls back to a
// low-confidence chat classification so the user always gets an answer.
func classify(ctx context.Context, client Client, logger Logger, prompt string, history []ChatMessage) Classification {
	reply, err := client.Complete(ctx, classifierSystemPrompt, []ChatMessage{{
		Role:    RoleUser,
		Content: classificationPrompt(prompt, history),
	}})
	if err != nil {
		logger.Warn("classification request failed", F("err", err))
		return chatFallback(fmt.Sprintf("classification failed: %v", err))
	}

	raw, ok := extractJSONObject(reply)
	if !ok {
		logger.Warn("classifier reply contained no JSON object")
		return chatFallback("classifier reply contained no JSON object")
	}
	if err := validateClassification(raw); err != nil {
		logger.Warn("classifier reply failed schema validation", F("err", err))
		return chatFallback(fmt.Sprintf("classification failed: %v", err))
	}

	var classification Classification
	if err := json.Unmarshal([]byte(raw), &classification); err != nil {
		return chatFallback(fmt.Sprintf("classification failed: %v", err))
	}
	return classification
}

func chatFallback(reasoning string) Classification {
	return Classification{Type: RequestChat, Confidence: 0.5, Reasoning: reasoning}
}

// extractJSONObject pulls the outermost {...} span from a reply that may wrap
// the JSON in prose or a code fence.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
