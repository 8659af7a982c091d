package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Compiled regex patterns for query preprocessing
var (
	// Leading quantity such as "100g ", "2 cups ", "1.5 oz ". The recipe API
	// matches food names better without it.
	leadingAmountPattern = regexp.MustCompile(`(?i)^\d+(?:\.\d+)?\s*(?:g|oz|cups?|tbsp|tsp|pound|ml|l)\s+`)

	// Letters (with combining marks) and digits of any script survive
	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// QueryPreprocessor turns user input into the text sent to the nutrition API
type QueryPreprocessor struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor
func NewQueryPreprocessor(logger *zap.Logger, enableDebugLogging bool) *QueryPreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryPreprocessor{
		logger:             logger,
		enableDebugLogging: enableDebugLogging,
	}
}

// BuildSearchText prefixes the amount to the query when one is given
func BuildSearchText(query, amount string) string {
	query = strings.TrimSpace(query)
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return query
	}
	return amount + " " + query
}

// CleanQuery strips a leading quantity token from the search text
func (p *QueryPreprocessor) CleanQuery(text string) string {
	cleaned := strings.TrimSpace(leadingAmountPattern.ReplaceAllString(strings.TrimSpace(text), ""))

	if p.enableDebugLogging {
		p.logger.Debug("preprocessed query",
			zap.String("input", text),
			zap.String("output", cleaned))
	}

	return cleaned
}

// CacheKey creates a normalized cache key for a cleaned query.
// Format: "nutrition:edamam:{normalized_query}". It reports false when
// nothing is left after normalization; such queries must not share a key.
func (p *QueryPreprocessor) CacheKey(cleaned string) (string, bool) {
	normalized := normalizeForCacheKey(cleaned)
	if normalized == "" {
		return "", false
	}
	return "nutrition:edamam:" + normalized, true
}

// normalizeForCacheKey lowercases, drops punctuation and symbols and collapses whitespace
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = nonAlphanumericRegex.ReplaceAllString(result, "")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
