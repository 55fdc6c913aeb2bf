package media

import (
	"fmt"

	"mediacms/internal/common"
)

// MediaHandler is the per-kind capability set. The orchestrator selects one
// handler at entry instead of branching on the kind throughout the pipeline.
type MediaHandler interface {
	Kind() common.MediaKind
	Collection() string
	// ShouldGenerateDerivatives reports whether resized renditions are
	// produced for the given MIME type.
	ShouldGenerateDerivatives(mimeType string) bool
}

type imageHandler struct{}

func (imageHandler) Kind() common.MediaKind { return common.MediaKindImage }
func (imageHandler) Collection() string     { return common.MediaKindImage.Collection() }
func (imageHandler) ShouldGenerateDerivatives(mimeType string) bool {
	// SVG passes through unresized at every size
	return common.IsImageMime(mimeType) && !common.IsSVGMime(mimeType)
}

type documentHandler struct{}

func (documentHandler) Kind() common.MediaKind                { return common.MediaKindDocument }
func (documentHandler) Collection() string                    { return common.MediaKindDocument.Collection() }
func (documentHandler) ShouldGenerateDerivatives(string) bool { return false }

type audioHandler struct{}

func (audioHandler) Kind() common.MediaKind                { return common.MediaKindAudio }
func (audioHandler) Collection() string                    { return common.MediaKindAudio.Collection() }
func (audioHandler) ShouldGenerateDerivatives(string) bool { return false }

type videoHandler struct{}

func (videoHandler) Kind() common.MediaKind                { return common.MediaKindVideo }
func (videoHandler) Collection() string                    { return common.MediaKindVideo.Collection() }
func (videoHandler) ShouldGenerateDerivatives(string) bool { return false }

type remoteVideoHandler struct{}

func (remoteVideoHandler) Kind() common.MediaKind                { return common.MediaKindRemoteVideo }
func (remoteVideoHandler) Collection() string                    { return common.MediaKindRemoteVideo.Collection() }
func (remoteVideoHandler) ShouldGenerateDerivatives(string) bool { return false }

func handlerForKind(kind common.MediaKind) (MediaHandler, error) {
	switch kind {
	case common.MediaKindImage:
		return imageHandler{}, nil
	case common.MediaKindDocument:
		return documentHandler{}, nil
	case common.MediaKindAudio:
		return audioHandler{}, nil
	case common.MediaKindVideo:
		return videoHandler{}, nil
	case common.MediaKindRemoteVideo:
		return remoteVideoHandler{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
}
