package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"mediacms/internal/common"
)

// IngestionService is the top-level entry point of the media pipeline, one
// operation per media kind. Every operation shares the same sequence:
// hash -> dedup lookup -> short-circuit or original write -> derivatives
// (images only) -> record persistence.
type IngestionService interface {
	SaveImage(ctx context.Context, input UploadInput) (*IngestResult, error)
	SaveDocument(ctx context.Context, input UploadInput) (*IngestResult, error)
	SaveAudio(ctx context.Context, input UploadInput) (*IngestResult, error)
	SaveVideo(ctx context.Context, input UploadInput) (*IngestResult, error)
	SaveRemoteVideo(ctx context.Context, remoteURL string) (*IngestResult, error)
	// SaveAvatar runs the image path with a single fixed resize target and
	// returns a ready-to-use URL instead of the full record.
	SaveAvatar(ctx context.Context, input UploadInput) (string, error)
	// Save dispatches on a kind tag, used by the HTTP layer.
	Save(ctx context.Context, kind common.MediaKind, input UploadInput) (*IngestResult, error)
	// Exists is the conditional-upload probe: it reports whether content
	// with the given hash is already ingested for a kind.
	Exists(ctx context.Context, kind common.MediaKind, hash string) (bool, error)
}

type ingestionService struct {
	store       RecordStore
	resolver    *LocationResolver
	derivatives *DerivativeGenerator
	client      *http.Client
}

func NewIngestionService(store RecordStore, resolver *LocationResolver, derivatives *DerivativeGenerator) IngestionService {
	return &ingestionService{
		store:       store,
		resolver:    resolver,
		derivatives: derivatives,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ingestionService) SaveImage(ctx context.Context, input UploadInput) (*IngestResult, error) {
	return s.saveMedia(ctx, common.MediaKindImage, input)
}

func (s *ingestionService) SaveDocument(ctx context.Context, input UploadInput) (*IngestResult, error) {
	return s.saveMedia(ctx, common.MediaKindDocument, input)
}

func (s *ingestionService) SaveAudio(ctx context.Context, input UploadInput) (*IngestResult, error) {
	return s.saveMedia(ctx, common.MediaKindAudio, input)
}

func (s *ingestionService) SaveVideo(ctx context.Context, input UploadInput) (*IngestResult, error) {
	return s.saveMedia(ctx, common.MediaKindVideo, input)
}

func (s *ingestionService) Save(ctx context.Context, kind common.MediaKind, input UploadInput) (*IngestResult, error) {
	if _, err := handlerForKind(kind); err != nil {
		return nil, err
	}
	if kind == common.MediaKindRemoteVideo {
		return nil, fmt.Errorf("%w: remote video takes a URL, not a payload", ErrUnsupportedKind)
	}
	return s.saveMedia(ctx, kind, input)
}

func (s *ingestionService) Exists(ctx context.Context, kind common.MediaKind, hash string) (bool, error) {
	if s.store == nil {
		return false, ErrAdapterNotInitialized
	}
	handler, err := handlerForKind(kind)
	if err != nil {
		return false, err
	}
	return s.store.Exists(ctx, handler.Collection(), hash)
}

// saveMedia is the shared state machine behind the per-kind entry points.
func (s *ingestionService) saveMedia(ctx context.Context, kind common.MediaKind, input UploadInput) (*IngestResult, error) {
	if s.store == nil {
		return nil, ErrAdapterNotInitialized
	}
	handler, err := handlerForKind(kind)
	if err != nil {
		return nil, err
	}

	hash, fullHash := HashFileContent(input.Data)

	// Dedup: re-uploading identical bytes is a no-op beyond this lookup.
	existing, err := s.store.FindByHash(ctx, handler.Collection(), hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &IngestResult{ID: existing.ID, Asset: existing}, nil
	}

	baseName, extension := SanitizeFilename(input.FileName)
	if extension == "" {
		extension = common.ExtensionFromMime(input.MimeType)
	}

	origLoc := s.resolver.Resolve(input.Strategy, hash, baseName, extension, SizeOriginal, input.Collection)
	if err := s.resolver.WriteFile(origLoc, input.Data); err != nil {
		return nil, err
	}

	now := time.Now()
	asset := &MediaAsset{
		Hash:         hash,
		FullHash:     fullHash,
		Kind:         kind,
		Name:         fmt.Sprintf("%s-%s.%s", hash, baseName, extension),
		URL:          origLoc.URL,
		MimeType:     input.MimeType,
		Size:         int64(len(input.Data)),
		UsedBy:       []string{},
		CreatedAt:    now,
		LastModified: now,
	}

	if kind == common.MediaKindImage {
		if w, h, ok := imageDimensions(input.Data, input.MimeType); ok {
			asset.Width = intPtr(w)
			asset.Height = intPtr(h)
		}
		asset.Variants = map[string]VariantDescriptor{
			SizeOriginal: asset.OriginalDescriptor(),
		}
	}

	// All derivative files must exist on disk before the record that points
	// at them is persisted.
	if handler.ShouldGenerateDerivatives(input.MimeType) {
		generated, err := s.derivatives.Generate(input.Data, hash, baseName, extension, input.Collection, input.Strategy)
		if err != nil {
			return nil, err
		}
		for label, desc := range generated {
			asset.Variants[label] = desc
		}
	}

	id, err := s.store.Persist(ctx, handler.Collection(), asset)
	if err != nil {
		// disk writes are provisional until the insert succeeds; anything
		// cleanup misses is left for the out-of-band orphan sweep
		s.removeWrittenFiles(input.Strategy, hash, baseName, input.Collection, origLoc, asset.Variants)
		return nil, err
	}
	asset.ID = id

	return &IngestResult{ID: id, Asset: asset}, nil
}

// removeWrittenFiles best-effort deletes the files of a failed ingestion.
// Paths are re-derived through the resolver, which is deterministic.
func (s *ingestionService) removeWrittenFiles(strategy StorageStrategy, hash, baseName, collection string, origLoc Location, variants map[string]VariantDescriptor) {
	_ = os.Remove(origLoc.DiskPath)
	for label, desc := range variants {
		if label == SizeOriginal {
			continue
		}
		ext := strings.TrimPrefix(path.Ext(desc.Name), ".")
		loc := s.resolver.Resolve(strategy, hash, baseName, ext, label, collection)
		_ = os.Remove(loc.DiskPath)
	}
}

// SaveRemoteVideo fetches the remote payload, hashes it, and persists a
// record that keeps referencing the remote URL instead of re-hosting it.
func (s *ingestionService) SaveRemoteVideo(ctx context.Context, remoteURL string) (*IngestResult, error) {
	if s.store == nil {
		return nil, ErrAdapterNotInitialized
	}
	handler, err := handlerForKind(common.MediaKindRemoteVideo)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("remote fetch: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote fetch failed: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remote fetch: %w", err)
	}

	hash, fullHash := HashFileContent(data)
	existing, err := s.store.FindByHash(ctx, handler.Collection(), hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &IngestResult{ID: existing.ID, Asset: existing}, nil
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	now := time.Now()
	asset := &MediaAsset{
		Hash:         hash,
		FullHash:     fullHash,
		Kind:         common.MediaKindRemoteVideo,
		Name:         remoteBaseName(remoteURL),
		URL:          remoteURL,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		UsedBy:       []string{},
		CreatedAt:    now,
		LastModified: now,
	}

	id, err := s.store.Persist(ctx, handler.Collection(), asset)
	if err != nil {
		return nil, err
	}
	asset.ID = id

	return &IngestResult{ID: id, Asset: asset}, nil
}

// SaveAvatar ingests into the image collection under the fixed "avatars"
// path with a single resize target and returns the resulting URL.
func (s *ingestionService) SaveAvatar(ctx context.Context, input UploadInput) (string, error) {
	if s.store == nil {
		return "", ErrAdapterNotInitialized
	}
	collection := common.MediaKindImage.Collection()

	hash, fullHash := HashFileContent(input.Data)
	existing, err := s.store.FindByHash(ctx, collection, hash)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if thumb, ok := existing.Variants[SizeThumbnail]; ok {
			return thumb.URL, nil
		}
		return existing.URL, nil
	}

	baseName, extension := SanitizeFilename(input.FileName)
	if extension == "" {
		extension = common.ExtensionFromMime(input.MimeType)
	}
	strategy := StorageStrategy("avatars")

	origLoc := s.resolver.Resolve(strategy, hash, baseName, extension, SizeOriginal, "")
	if err := s.resolver.WriteFile(origLoc, input.Data); err != nil {
		return "", err
	}

	now := time.Now()
	asset := &MediaAsset{
		Hash:         hash,
		FullHash:     fullHash,
		Kind:         common.MediaKindImage,
		Name:         fmt.Sprintf("%s-%s.%s", hash, baseName, extension),
		URL:          origLoc.URL,
		MimeType:     input.MimeType,
		Size:         int64(len(input.Data)),
		UsedBy:       []string{},
		CreatedAt:    now,
		LastModified: now,
	}
	if w, h, ok := imageDimensions(input.Data, input.MimeType); ok {
		asset.Width = intPtr(w)
		asset.Height = intPtr(h)
	}
	asset.Variants = map[string]VariantDescriptor{
		SizeOriginal: asset.OriginalDescriptor(),
	}

	avatarURL := origLoc.URL
	if common.IsImageMime(input.MimeType) && !common.IsSVGMime(input.MimeType) {
		thumb, err := s.derivatives.GenerateOne(input.Data,
			SizeVariant{Name: SizeThumbnail, Width: AvatarWidth},
			hash, baseName, extension, "", strategy)
		if err != nil {
			return "", err
		}
		asset.Variants[SizeThumbnail] = thumb
		avatarURL = thumb.URL
	}

	if _, err := s.store.Persist(ctx, collection, asset); err != nil {
		s.removeWrittenFiles(strategy, hash, baseName, "", origLoc, asset.Variants)
		return "", err
	}
	return avatarURL, nil
}

// imageDimensions reads the intrinsic size of an image payload. SVG and
// undecodable buffers report no dimensions.
func imageDimensions(data []byte, mimeType string) (int, int, bool) {
	if !common.IsImageMime(mimeType) || common.IsSVGMime(mimeType) {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func remoteBaseName(remoteURL string) string {
	u, err := url.Parse(remoteURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return remoteURL
	}
	base, ext := SanitizeFilename(path.Base(u.Path))
	if ext == "" {
		return base
	}
	return fmt.Sprintf("%s.%s", base, ext)
}
