package handlers

import (
	"strings"
	"unicode/utf8"

	"inkwell/internal/apperr"
)

// Validation limits for blog and category fields.
const (
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxExcerptLen  = 1_000
	maxTagCount    = 20
	maxTagLen      = 50
	maxCategoryLen = 100
)

// validateBlogRequest checks blog form inputs and returns the first error found.
func validateBlogRequest(title, body string, excerpt *string, tags []string) error {
	if strings.TrimSpace(title) == "" {
		return apperr.Validation("title", "is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return apperr.Validation("title", "is too long (max %d characters)", maxTitleLen)
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return apperr.Validation("body", "is too long (max %d characters)", maxBodyLen)
	}
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > maxExcerptLen {
		return apperr.Validation("excerpt", "is too long (max %d characters)", maxExcerptLen)
	}
	if len(tags) > maxTagCount {
		return apperr.Validation("tags", "too many tags (max %d)", maxTagCount)
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLen {
			return apperr.Validation("tags", "tag %q is too long (max %d characters)", t, maxTagLen)
		}
	}
	return nil
}

// validateCategoryName checks a category name.
func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryLen {
		return apperr.Validation("name", "is too long (max %d characters)", maxCategoryLen)
	}
	return nil
}
