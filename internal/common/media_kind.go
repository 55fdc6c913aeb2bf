package common

import "strings"

// MediaKind represents the media categories from the MediaAsset schema
type MediaKind string

const (
	MediaKindImage       MediaKind = "image"
	MediaKindDocument    MediaKind = "document"
	MediaKindAudio       MediaKind = "audio"
	MediaKindVideo       MediaKind = "video"
	MediaKindRemoteVideo MediaKind = "remote_video"
)

// String returns the string representation
func (mk MediaKind) String() string {
	return string(mk)
}

// IsValid checks if the media kind is valid
func (mk MediaKind) IsValid() bool {
	switch mk {
	case MediaKindImage, MediaKindDocument, MediaKindAudio, MediaKindVideo, MediaKindRemoteVideo:
		return true
	}
	return false
}

// Collection returns the metadata collection name for this kind
func (mk MediaKind) Collection() string {
	switch mk {
	case MediaKindImage:
		return "media_images"
	case MediaKindDocument:
		return "media_documents"
	case MediaKindAudio:
		return "media_audio"
	case MediaKindVideo:
		return "media_videos"
	case MediaKindRemoteVideo:
		return "media_remote_videos"
	default:
		return ""
	}
}

func DetectKind(mimeType string) MediaKind {
	lowerMimeType := strings.ToLower(mimeType)
	if strings.HasPrefix(lowerMimeType, "image/") {
		return MediaKindImage
	}
	if strings.HasPrefix(lowerMimeType, "audio/") {
		return MediaKindAudio
	}
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaKindVideo
	}
	return MediaKindDocument // everything else is stored as a document
}

// IsImageMime reports whether the MIME type belongs to the image family.
func IsImageMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), "image/")
}

// IsSVGMime reports whether the MIME type is an SVG. SVG payloads are never
// resized or re-encoded.
func IsSVGMime(mimeType string) bool {
	return strings.ToLower(mimeType) == "image/svg+xml"
}
