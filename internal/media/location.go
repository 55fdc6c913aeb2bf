package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mediacms/internal/config"
)

// Location is one resolved storage target: where the bytes live on disk and
// the URL handed back to clients.
type Location struct {
	DiskPath string
	URL      string
}

// LocationResolver derives deterministic disk paths and URLs for media
// variants. Resolve is pure: identical inputs always produce identical
// output, which is what makes reprocessing idempotent.
type LocationResolver struct {
	root    string
	baseURL string
}

func NewLocationResolver(cfg *config.Config) *LocationResolver {
	return &LocationResolver{
		root:    cfg.Media.RootDir,
		baseURL: strings.TrimRight(cfg.Media.ServerURL, "/"),
	}
}

// Resolve builds the storage location for one variant:
//
//	global:  {label}/{hash}-{baseName}.{ext}
//	unique:  {collection}/{label}/{hash}-{baseName}.{ext}
//	named:   {path}/{label}/{hash}-{baseName}.{ext}
//
// The label segment is omitted for the literal original upload so originals
// sit at the strategy root. When a media-server base URL is configured the
// URL is prefixed with it; the disk path is always rooted at the local media
// root regardless.
func (r *LocationResolver) Resolve(strategy StorageStrategy, hash, baseName, extension, sizeLabel, collectionName string) Location {
	fileName := fmt.Sprintf("%s-%s", hash, baseName)
	if extension != "" {
		fileName = fmt.Sprintf("%s.%s", fileName, extension)
	}

	var segments []string
	switch strategy {
	case StrategyGlobal, "":
		// shared root
	case StrategyUnique:
		segments = append(segments, collectionName)
	default:
		segments = append(segments, string(strategy))
	}
	if sizeLabel != SizeOriginal {
		segments = append(segments, sizeLabel)
	}
	segments = append(segments, fileName)

	rel := path.Join(segments...)
	url := "/" + rel
	if r.baseURL != "" {
		url = r.baseURL + "/" + rel
	}

	return Location{
		DiskPath: filepath.Join(r.root, filepath.FromSlash(rel)),
		URL:      url,
	}
}

// WriteFile persists a buffer at the resolved disk path, creating missing
// directories on the way.
func (r *LocationResolver) WriteFile(loc Location, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(loc.DiskPath), 0o755); err != nil {
		return fmt.Errorf("create media directory: %w", err)
	}
	if err := os.WriteFile(loc.DiskPath, data, 0o644); err != nil {
		return fmt.Errorf("write media file: %w", err)
	}
	return nil
}
