// Package logo derives filesystem-safe target filenames for token logos.
package logo

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// imageExtensions is the set of extensions kept as-is when resolving a logo
// URL. Anything else falls back to ".png".
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
	".gif":  true,
}

// SanitizeFilename replaces every character outside [a-zA-Z0-9-_.] with an
// underscore. Each character maps to exactly one output character, so the
// result has the same length as the input and safe input passes through
// unchanged.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// ExtensionFromURL extracts the file extension from the path component of a
// logo URL. Missing or unrecognized extensions resolve to ".png"; recognized
// ones are matched case-insensitively and returned with their original case.
func ExtensionFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".png"
	}

	ext := path.Ext(parsed.Path)
	if ext == "" || !imageExtensions[strings.ToLower(ext)] {
		return ".png"
	}

	return ext
}

// Filename returns the on-disk filename for a token symbol and its logo URL:
// the sanitized symbol plus the resolved extension. Distinct symbols can
// collide after sanitization; the downloader's existing-file check makes the
// first write win.
func Filename(symbol, logoURL string) string {
	return SanitizeFilename(symbol) + ExtensionFromURL(logoURL)
}
