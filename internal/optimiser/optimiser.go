package optimiser

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"

	"github.com/fhuszti/media-pipeline-go/internal/port"
)

const (
	MinJPEGQuality = 30
	MaxJPEGQuality = 100
)

// JPEGOptimiser converts any registered raster format into a web-deliverable
// JPEG: orientation corrected, metadata stripped, bounded to a configured box.
type JPEGOptimiser struct{}

// compile-time check: *JPEGOptimiser must satisfy port.ImageOptimiser
var _ port.ImageOptimiser = (*JPEGOptimiser)(nil)

func NewJPEGOptimiser() *JPEGOptimiser {
	log.Println("initialising image optimiser...")
	return &JPEGOptimiser{}
}

// Optimise writes the optimised JPEG to outputPath and returns the pixel
// dimensions actually written. Re-encoding drops every embedded EXIF/ICC
// block, so the output never leaks camera metadata.
func (o *JPEGOptimiser) Optimise(ctx context.Context, inputPath, outputPath string, opts port.OptimiseOptions) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("optimiser: could not open input %q: %w", inputPath, err)
	}
	defer func() {
		_ = in.Close()
	}()

	orientation := readOrientation(in)
	if _, err := in.Seek(0, 0); err != nil {
		return 0, 0, fmt.Errorf("optimiser: failed to rewind input %q: %w", inputPath, err)
	}

	img, _, err := image.Decode(in)
	if err != nil {
		return 0, 0, fmt.Errorf("optimiser: failed to decode image %q: %w", inputPath, err)
	}
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	dstW, dstH := fitWithin(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	if dstW != bounds.Dx() || dstH != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		img = dst
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("optimiser: could not create output %q: %w", outputPath, err)
	}
	quality := clampQuality(opts.Quality)
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = out.Close()
		return 0, 0, fmt.Errorf("optimiser: failed to encode JPEG: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, 0, fmt.Errorf("optimiser: failed to finalise output %q: %w", outputPath, err)
	}

	return dstW, dstH, nil
}

// fitWithin shrinks (never grows) srcW×srcH to fit inside maxW×maxH,
// preserving aspect ratio. A zero or negative cap leaves that axis unbounded.
func fitWithin(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}

	scale := 1.0
	if maxW > 0 && srcW > maxW {
		scale = float64(maxW) / float64(srcW)
	}
	if maxH > 0 && srcH > maxH {
		if s := float64(maxH) / float64(srcH); s < scale {
			scale = s
		}
	}
	if scale >= 1.0 {
		return srcW, srcH
	}

	dstW := int(float64(srcW)*scale + 0.5)
	dstH := int(float64(srcH)*scale + 0.5)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}
	return dstW, dstH
}

func clampQuality(quality int) int {
	if quality < MinJPEGQuality {
		return MinJPEGQuality
	}
	if quality > MaxJPEGQuality {
		return MaxJPEGQuality
	}
	return quality
}
