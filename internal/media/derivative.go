package media

import (
	"bytes"
	"fmt"
	"image"
	"sort"

	"github.com/disintegration/imaging"

	"mediacms/internal/common"
	"mediacms/internal/config"
)

// DerivativeGenerator produces the resized renditions of an image upload.
// Every configured size plus the mandatory thumbnail is decoded, orientation
// corrected, resized preserving aspect ratio, re-encoded and written through
// the LocationResolver. A failed variant write fails the whole ingestion.
type DerivativeGenerator struct {
	resolver *LocationResolver
	sizes    []SizeVariant
	format   string
	quality  int
}

func NewDerivativeGenerator(cfg *config.Config, resolver *LocationResolver) *DerivativeGenerator {
	sizes := []SizeVariant{{Name: SizeThumbnail, Width: ThumbnailWidth}}

	labels := make([]string, 0, len(cfg.Media.Sizes))
	for label := range cfg.Media.Sizes {
		if label == SizeThumbnail {
			continue // thumbnail width is fixed
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		sizes = append(sizes, SizeVariant{Name: label, Width: cfg.Media.Sizes[label]})
	}

	quality := cfg.Media.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	return &DerivativeGenerator{
		resolver: resolver,
		sizes:    sizes,
		format:   cfg.Media.OutputFormat,
		quality:  quality,
	}
}

// Sizes returns the derivative targets in generation order (thumbnail first,
// then configured labels alphabetically).
func (g *DerivativeGenerator) Sizes() []SizeVariant {
	out := make([]SizeVariant, len(g.sizes))
	copy(out, g.sizes)
	return out
}

// Generate writes every non-original size variant to disk and returns their
// descriptors keyed by size label. SVG buffers must be filtered out by the
// caller before reaching this point.
func (g *DerivativeGenerator) Generate(data []byte, hash, baseName, extension, collectionName string, strategy StorageStrategy) (map[string]VariantDescriptor, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	variants := make(map[string]VariantDescriptor, len(g.sizes))
	for _, size := range g.sizes {
		desc, err := g.generateOne(src, size, hash, baseName, extension, collectionName, strategy)
		if err != nil {
			return nil, fmt.Errorf("generate %s variant: %w", size.Name, err)
		}
		variants[size.Name] = desc
	}
	return variants, nil
}

// GenerateOne produces a single named variant, used by the avatar path.
func (g *DerivativeGenerator) GenerateOne(data []byte, size SizeVariant, hash, baseName, extension, collectionName string, strategy StorageStrategy) (VariantDescriptor, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return VariantDescriptor{}, fmt.Errorf("decode image: %w", err)
	}
	return g.generateOne(src, size, hash, baseName, extension, collectionName, strategy)
}

func (g *DerivativeGenerator) generateOne(src image.Image, size SizeVariant, hash, baseName, extension, collectionName string, strategy StorageStrategy) (VariantDescriptor, error) {
	resized := src
	if size.Width > 0 && size.Width < src.Bounds().Dx() {
		resized = imaging.Resize(src, size.Width, 0, imaging.Lanczos)
	}

	outExt, format := g.outputFormat(extension)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(g.quality)); err != nil {
		return VariantDescriptor{}, fmt.Errorf("encode %s: %w", outExt, err)
	}

	loc := g.resolver.Resolve(strategy, hash, baseName, outExt, size.Name, collectionName)
	if err := g.resolver.WriteFile(loc, buf.Bytes()); err != nil {
		return VariantDescriptor{}, err
	}

	bounds := resized.Bounds()
	fileName := fmt.Sprintf("%s-%s.%s", hash, baseName, outExt)
	return VariantDescriptor{
		Name:     fileName,
		URL:      loc.URL,
		MimeType: common.MimeFromExtension(outExt),
		Size:     int64(buf.Len()),
		Width:    intPtr(bounds.Dx()),
		Height:   intPtr(bounds.Dy()),
	}, nil
}

// outputFormat picks the encode target: the configured format, or the source
// extension when configured as "original". Formats the encoder cannot write
// (webp, avif) fall back to jpeg.
func (g *DerivativeGenerator) outputFormat(sourceExt string) (string, imaging.Format) {
	ext := sourceExt
	if g.format != "" && g.format != "original" {
		ext = g.format
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "jpg", imaging.JPEG
	}
	return ext, format
}

func intPtr(v int) *int {
	return &v
}
