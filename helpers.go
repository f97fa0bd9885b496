package mdblog

import (
	"strings"
)

// SlugSeparator replaces spaces in filenames when building URL slugs.
const SlugSeparator = "-"

// MaxSlugLen is the longest accepted slug in bytes, the common filename
// limit.
const MaxSlugLen = 255

// SlugFromName converts a filename stem to a URL slug.
func SlugFromName(name string) string {
	return strings.ReplaceAll(name, " ", SlugSeparator)
}

// NameFromSlug converts a URL slug back to a filename stem.
func NameFromSlug(slug string) string {
	return strings.ReplaceAll(slug, SlugSeparator, " ")
}

// TitleFromSlug returns the display title of a post.
func TitleFromSlug(slug string) string {
	return strings.TrimSpace(NameFromSlug(slug))
}

// ValidateSlug rejects slugs that could resolve outside the storage
// directory or name hidden files.
func ValidateSlug(slug string) error {
	switch {
	case strings.TrimSpace(slug) == "":
		return ErrInvalidSlug
	case len(slug) > MaxSlugLen:
		return ErrInvalidSlug
	case strings.ContainsAny(slug, "/\\\x00"):
		return ErrInvalidSlug
	case strings.HasPrefix(slug, "."):
		return ErrInvalidSlug
	}
	return nil
}
