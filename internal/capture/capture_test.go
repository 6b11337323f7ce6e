package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"selfeval/internal/geo"
)

func solid(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func staticCamera(img image.Image) Camera {
	return CameraFunc(func(context.Context) (image.Image, error) { return img, nil })
}

// TestWatermarkDarkensBottomBar verifies the bar is composited over the bottom edge only.
func TestWatermarkDarkensBottomBar(t *testing.T) {
	src := solid(200, 120, color.White)
	out := Watermark(src, []string{"01/02/2026 10:00:00"})

	top := color.RGBAModel.Convert(out.At(2, 2)).(color.RGBA)
	if top.R != 0xff {
		t.Fatalf("expected top of image untouched, got %+v", top)
	}
	bottom := color.RGBAModel.Convert(out.At(1, 118)).(color.RGBA)
	if bottom.R >= 0xff || bottom.R == 0 {
		t.Fatalf("expected semi-opaque bar at bottom, got %+v", bottom)
	}
	if src.At(1, 118) != (color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}) {
		t.Fatalf("expected source image to stay unmodified")
	}
}

// TestDownscaleLimitsLongestSide verifies large images shrink proportionally.
func TestDownscaleLimitsLongestSide(t *testing.T) {
	out := Downscale(solid(400, 200, color.White), 100)
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 50 {
		t.Fatalf("expected 100x50, got %v", out.Bounds())
	}
	small := solid(50, 20, color.White)
	if Downscale(small, 100) != image.Image(small) {
		t.Fatalf("expected small image to be returned as-is")
	}
}

// TestTakePhotoStampsGeolocation verifies a timely fix is recorded on the photo.
func TestTakePhotoStampsGeolocation(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	locator := geo.Static{Fix: geo.Fix{Latitude: -8.05, Longitude: -34.9, Accuracy: 12}}
	photo, err := TakePhoto(context.Background(), "q1", staticCamera(solid(64, 64, color.White)), locator, PhotoOptions{
		Now: func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("take photo: %v", err)
	}
	if photo.QuestionID != "q1" || !photo.CapturedAt.Equal(now) {
		t.Fatalf("unexpected photo metadata: %+v", photo)
	}
	if photo.Geolocation == nil || photo.Geolocation.Accuracy != 12 {
		t.Fatalf("expected geolocation, got %+v", photo.Geolocation)
	}
	if _, err := jpeg.Decode(bytes.NewReader(photo.ImageData)); err != nil {
		t.Fatalf("expected jpeg output: %v", err)
	}
}

// TestTakePhotoWithoutFix verifies a slow locator is skipped silently.
func TestTakePhotoWithoutFix(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	slow := geo.LocatorFunc(func(context.Context) (geo.Fix, error) {
		<-release
		return geo.Fix{}, nil
	})
	missed := ""
	photo, err := TakePhoto(context.Background(), "q2", staticCamera(solid(32, 32, color.White)), slow, PhotoOptions{
		GeoTimeout: 10 * time.Millisecond,
		OnGeoMiss:  func(id string) { missed = id },
	})
	if err != nil {
		t.Fatalf("take photo: %v", err)
	}
	if photo.Geolocation != nil {
		t.Fatalf("expected no geolocation, got %+v", photo.Geolocation)
	}
	if missed != "q2" {
		t.Fatalf("expected geo miss callback for q2, got %q", missed)
	}
}

// TestTakePhotoAcquireFailure verifies camera errors produce no photo.
func TestTakePhotoAcquireFailure(t *testing.T) {
	boom := errors.New("camera busy")
	camera := CameraFunc(func(context.Context) (image.Image, error) { return nil, boom })
	photo, err := TakePhoto(context.Background(), "q1", camera, geo.Unavailable{}, PhotoOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected camera error, got %v", err)
	}
	if len(photo.ImageData) != 0 {
		t.Fatalf("expected no image data on failure")
	}
}

// TestFileCameraDecodesPNG verifies files are read and decoded.
func TestFileCameraDecodesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shelf.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(10, 6, color.White)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := FileCamera{Path: path}.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if img.Bounds().Dx() != 10 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if _, err := (FileCamera{Path: filepath.Join(t.TempDir(), "missing.png")}).Acquire(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := DecodeImage([]byte("not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}
