package utils

// CountTokens estimates the number of tokens in the given text, used only
// for logging prompt size before a request. Roughly 1 token ~= 4 characters;
// CJK text runs denser but the estimate is informational.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
