package detection

import (
	"context"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// Face is a detected face in source-image pixels.
type Face struct {
	// Bounds is the bounding box of the face.
	Bounds geometry.Rect `json:"bounds"`

	// Confidence indicates how face-like the region is (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// FaceDetector finds faces in an image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, img image.Image) ([]Face, error)
}

// SkinDetector finds faces as blobs of skin-toned pixels.
//
// It is a heuristic: anything skin colored and roughly face shaped is
// reported, so bare arms or wooden furniture can produce false positives.
// The zero value is not usable; start from NewSkinDetector.
type SkinDetector struct {
	// MaxSide is the longest side of the working copy. Larger images are
	// downscaled first and results are mapped back.
	MaxSide int

	// BlurRadius smooths sensor noise before classification.
	BlurRadius float64

	// MinArea is the smallest blob kept, as a fraction of the working area.
	MinArea float64

	// MinAspect and MaxAspect bound width/height of a kept blob.
	MinAspect float64
	MaxAspect float64

	// MinFill is the smallest share of the bounding box a blob must cover.
	MinFill float64
}

// NewSkinDetector returns a detector with defaults tuned for portraits and
// group photos.
func NewSkinDetector() *SkinDetector {
	return &SkinDetector{
		MaxSide:    320,
		BlurRadius: 1.5,
		MinArea:    0.002,
		MinAspect:  0.45,
		MaxAspect:  1.3,
		MinFill:    0.4,
	}
}

// DetectFaces implements FaceDetector.
//
// # Algorithm
//
//  1. Downscale so the longest side is at most MaxSide
//  2. Gaussian blur with BlurRadius
//  3. Classify each pixel as skin in HSV space
//  4. Group skin pixels into 8-connected blobs
//  5. Keep blobs passing the area, aspect and fill filters
//  6. Merge overlapping boxes and map them back to source pixels
//
// Results are sorted by confidence, highest first. ctx is checked once per
// row while classifying and once per blob while grouping.
func (d *SkinDetector) DetectFaces(ctx context.Context, img image.Image) ([]Face, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return []Face{}, nil
	}

	work := imaging.Fit(img, d.MaxSide, d.MaxSide, imaging.Box)
	if d.BlurRadius > 0 {
		work = imaging.Clone(blur.Gaussian(work, d.BlurRadius))
	}
	width, height := work.Bounds().Dx(), work.Bounds().Dy()
	sx := float64(src.Dx()) / float64(width)
	sy := float64(src.Dy()) / float64(height)

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			mask[y][x] = isSkin(work.At(x, y))
		}
	}

	minPixels := d.MinArea * float64(width*height)
	faces := make([]Face, 0)
	for _, blob := range findContours(mask, width, height) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if float64(len(blob)) < minPixels {
			continue
		}

		box := blobBounds(blob)
		w, h := float64(box.Dx()+1), float64(box.Dy()+1)
		aspect := w / h
		fill := float64(len(blob)) / (w * h)
		if aspect < d.MinAspect || aspect > d.MaxAspect || fill < d.MinFill {
			continue
		}

		faces = append(faces, Face{
			Bounds: geometry.Rect{
				X:      float64(box.Min.X)*sx + float64(src.Min.X),
				Y:      float64(box.Min.Y)*sy + float64(src.Min.Y),
				Width:  w * sx,
				Height: h * sy,
			},
			Confidence: faceConfidence(aspect, fill),
		})
	}

	faces = mergeOverlappingFaces(faces)
	sort.Slice(faces, func(i, j int) bool {
		return faces[i].Confidence > faces[j].Confidence
	})
	return faces, nil
}

// isSkin classifies a pixel by hue, saturation and value. Transparent pixels
// are never skin.
func isSkin(c color.Color) bool {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	h, s, v := col.Hsv()
	return (h <= 50 || h >= 340) && s >= 0.2 && s <= 0.7 && v >= 0.35
}

// faceConfidence rewards blobs that fill their box and have the proportions
// of a face (slightly taller than wide).
func faceConfidence(aspect, fill float64) float64 {
	shape := 1 - math.Abs(aspect-0.8)
	c := fill * shape
	return math.Max(0, math.Min(1, c))
}

func blobBounds(blob []Point) image.Rectangle {
	r := image.Rect(blob[0].X, blob[0].Y, blob[0].X, blob[0].Y)
	for _, p := range blob[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// mergeOverlappingFaces combines faces whose boxes overlap, keeping the
// higher confidence.
func mergeOverlappingFaces(faces []Face) []Face {
	merged := make([]Face, 0, len(faces))
	for _, f := range faces {
		found := false
		for i := range merged {
			if overlaps(f.Bounds, merged[i].Bounds) {
				merged[i].Bounds, _ = geometry.Union(f.Bounds, merged[i].Bounds)
				merged[i].Confidence = math.Max(f.Confidence, merged[i].Confidence)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, f)
		}
	}
	return merged
}

func overlaps(a, b geometry.Rect) bool {
	return a.X < b.Right() && a.Right() > b.X && a.Y < b.Bottom() && a.Bottom() > b.Y
}
