package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediacms/internal/config"
)

func newTestResolver(root, serverURL string) *LocationResolver {
	return NewLocationResolver(&config.Config{
		Media: config.MediaConfig{RootDir: root, ServerURL: serverURL},
	})
}

func TestLocationResolver_Strategies(t *testing.T) {
	r := newTestResolver("/var/media", "")

	tests := []struct {
		name       string
		strategy   StorageStrategy
		sizeLabel  string
		collection string
		wantURL    string
	}{
		{
			name:      "global original has no label segment",
			strategy:  StrategyGlobal,
			sizeLabel: SizeOriginal,
			wantURL:   "/abc123-photo.png",
		},
		{
			name:      "global derivative",
			strategy:  StrategyGlobal,
			sizeLabel: SizeThumbnail,
			wantURL:   "/thumbnail/abc123-photo.png",
		},
		{
			name:       "unique keyed by collection",
			strategy:   StrategyUnique,
			sizeLabel:  SizeThumbnail,
			collection: "posts",
			wantURL:    "/posts/thumbnail/abc123-photo.png",
		},
		{
			name:       "unique original",
			strategy:   StrategyUnique,
			sizeLabel:  SizeOriginal,
			collection: "posts",
			wantURL:    "/posts/abc123-photo.png",
		},
		{
			name:      "named path strategy",
			strategy:  StorageStrategy("avatars"),
			sizeLabel: SizeThumbnail,
			wantURL:   "/avatars/thumbnail/abc123-photo.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := r.Resolve(tt.strategy, "abc123", "photo", "png", tt.sizeLabel, tt.collection)
			assert.Equal(t, tt.wantURL, loc.URL)
			assert.Equal(t, filepath.Join("/var/media", filepath.FromSlash(tt.wantURL)), loc.DiskPath)
		})
	}
}

func TestLocationResolver_Deterministic(t *testing.T) {
	r := newTestResolver("/var/media", "")

	loc1 := r.Resolve(StrategyUnique, "abc123", "photo", "png", "medium", "posts")
	loc2 := r.Resolve(StrategyUnique, "abc123", "photo", "png", "medium", "posts")

	require.Equal(t, loc1, loc2)
}

func TestLocationResolver_MediaServerURL(t *testing.T) {
	r := newTestResolver("/var/media", "https://cdn.example.com/")

	loc := r.Resolve(StrategyGlobal, "abc123", "photo", "png", SizeThumbnail, "")

	assert.Equal(t, "https://cdn.example.com/thumbnail/abc123-photo.png", loc.URL)
	// URL prefixing never moves the file on disk
	assert.Equal(t, filepath.Join("/var/media", "thumbnail", "abc123-photo.png"), loc.DiskPath)
}

func TestLocationResolver_NoExtension(t *testing.T) {
	r := newTestResolver("/var/media", "")

	loc := r.Resolve(StrategyGlobal, "abc123", "README", "", SizeOriginal, "")

	assert.Equal(t, "/abc123-README", loc.URL)
}

func TestLocationResolver_WriteFile(t *testing.T) {
	root := t.TempDir()
	r := newTestResolver(root, "")

	loc := r.Resolve(StrategyUnique, "abc123", "photo", "png", SizeThumbnail, "posts")
	require.NoError(t, r.WriteFile(loc, []byte("fake image bytes")))

	assert.FileExists(t, loc.DiskPath)
}
