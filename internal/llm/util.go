package llm

import "strings"

// CleanJSONBlock strips markdown code fences from a model response. Models
// often wrap JSON in ```json ... ``` blocks even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		// Drop a bare language identifier left on the first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			first := strings.TrimSpace(text[:idx])
			if first != "" && len(first) < 20 && !strings.ContainsAny(first, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// ExtractJSONObject returns the outermost {...} object embedded in free
// text, or the input unchanged when no braces are found. Some models prefix
// JSON with prose despite instructions.
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}
