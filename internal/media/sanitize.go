package media

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	unsafeRe     = regexp.MustCompile(`[^a-zA-Z0-9_]`)
)

// SanitizeFilename splits the extension off a human filename and rewrites
// the base name so it is safe to embed unescaped in both a filesystem path
// segment and a URL path segment. The extension comes back lower-cased and
// without the dot; a filename with no extension returns an empty extension.
func SanitizeFilename(fileName string) (baseName string, extension string) {
	ext := filepath.Ext(fileName)
	baseName = strings.TrimSuffix(fileName, ext)
	baseName = whitespaceRe.ReplaceAllString(baseName, "_")
	baseName = unsafeRe.ReplaceAllString(baseName, "")
	extension = strings.ToLower(strings.TrimPrefix(ext, "."))
	return baseName, extension
}
