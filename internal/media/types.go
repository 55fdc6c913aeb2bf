package media

import (
	"time"

	"mediacms/internal/common"
)

// StorageStrategy selects the directory layout for a stored file. Anything
// other than the two well-known values is treated as a named path prefix.
// The strategy only affects path and URL construction, never the content
// hash or dedup behavior.
type StorageStrategy string

const (
	StrategyGlobal StorageStrategy = "global"
	StrategyUnique StorageStrategy = "unique"
)

const (
	// SizeOriginal is the zero-width sentinel label for the unresized upload.
	SizeOriginal = "original"
	// SizeThumbnail is always generated for images on top of the configured sizes.
	SizeThumbnail = "thumbnail"

	ThumbnailWidth = 200
	AvatarWidth    = 200
)

// SizeVariant is one configured derivative target width. Width 0 means "no
// resize" and is only ever used for the original label.
type SizeVariant struct {
	Name  string
	Width int
}

// VariantDescriptor describes one stored rendition of an asset.
type VariantDescriptor struct {
	Name     string `bson:"name" json:"name"`
	URL      string `bson:"url" json:"url"`
	MimeType string `bson:"mimeType" json:"mime_type"`
	Size     int64  `bson:"size" json:"size"`
	Width    *int   `bson:"width,omitempty" json:"width,omitempty"`
	Height   *int   `bson:"height,omitempty" json:"height,omitempty"`
}

// MediaAsset is the persisted record for one logical uploaded file. The
// top-level descriptor fields always describe the original; images carry the
// full variant map in addition.
type MediaAsset struct {
	ID       string           `bson:"-" json:"id"`
	Hash     string           `bson:"hash" json:"hash"`
	FullHash string           `bson:"fullHash" json:"full_hash"`
	Kind     common.MediaKind `bson:"kind" json:"kind"`

	Name     string `bson:"name" json:"name"`
	URL      string `bson:"url" json:"url"`
	MimeType string `bson:"mimeType" json:"mime_type"`
	Size     int64  `bson:"size" json:"size"`
	Width    *int   `bson:"width,omitempty" json:"width,omitempty"`
	Height   *int   `bson:"height,omitempty" json:"height,omitempty"`

	// Variants is populated for images only; the other kinds carry just the
	// top-level original descriptor.
	Variants map[string]VariantDescriptor `bson:"variants,omitempty" json:"variants,omitempty"`

	// UsedBy tracks entries referencing this asset. Ingestion never mutates
	// it; the reference repository owns its lifecycle.
	UsedBy []string `bson:"usedBy" json:"used_by"`

	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
	LastModified time.Time `bson:"lastModified" json:"last_modified"`
}

// OriginalDescriptor returns the top-level original rendition.
func (a *MediaAsset) OriginalDescriptor() VariantDescriptor {
	return VariantDescriptor{
		Name:     a.Name,
		URL:      a.URL,
		MimeType: a.MimeType,
		Size:     a.Size,
		Width:    a.Width,
		Height:   a.Height,
	}
}

// UploadInput is the caller-supplied payload for one ingestion.
type UploadInput struct {
	FileName string
	MimeType string
	Data     []byte
	// Collection is the owning content collection, used only for
	// unique-strategy path construction.
	Collection string
	Strategy   StorageStrategy
}

// IngestResult is returned by every ingestion entry point.
type IngestResult struct {
	ID    string      `json:"id"`
	Asset *MediaAsset `json:"asset"`
}
