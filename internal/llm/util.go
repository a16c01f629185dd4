package llm

import "strings"

// CleanJSONBlock strips markdown code fences and surrounding prose
// from a model response. Models often wrap JSON in ```json fences or
// add a conversational preamble even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	body, fenced := strings.CutPrefix(text, "```json")
	if !fenced {
		body, fenced = strings.CutPrefix(text, "```")
		if fenced {
			// Drop a bare language identifier on the opening line.
			if line, rest, found := strings.Cut(body, "\n"); found &&
				len(line) < 20 && !strings.ContainsAny(line, " {") {
				body = rest
			}
		}
	}
	if fenced {
		if idx := strings.LastIndex(body, "```"); idx >= 0 {
			body = body[:idx]
		}
	}
	body = strings.TrimSpace(body)

	if payload := firstJSONValue(body); payload != "" {
		return payload
	}
	return body
}

// firstJSONValue returns the first balanced JSON object or array in
// text, or "" when none completes. The scan is string-aware so braces
// inside values do not end it early.
func firstJSONValue(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	open := text[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == closer:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
