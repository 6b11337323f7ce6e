package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"strings"
	"time"

	"selfeval/internal/evaluation"
	"selfeval/internal/geo"
)

const (
	// DefaultJPEGQuality is used when PhotoOptions.Quality is unset.
	DefaultJPEGQuality = 80
	// DefaultGeoTimeout bounds the wait for a position fix.
	DefaultGeoTimeout = 5 * time.Second
)

// PhotoOptions tunes TakePhoto.
type PhotoOptions struct {
	Quality      int
	MaxDimension int
	GeoTimeout   time.Duration
	Now          func() time.Time
	// OnGeoMiss is called when no position fix was obtained.
	OnGeoMiss func(questionID string)
}

func (o PhotoOptions) withDefaults() PhotoOptions {
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultJPEGQuality
	}
	if o.GeoTimeout <= 0 {
		o.GeoTimeout = DefaultGeoTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// TakePhoto acquires an image for questionID, stamps it with the capture time
// and the position when one arrives in time, and re-encodes it as JPEG.
// Acquisition failures return an error and no photo; positioning failures only
// drop the coordinates.
func TakePhoto(ctx context.Context, questionID string, camera Camera, locator geo.Locator, opts PhotoOptions) (evaluation.Photo, error) {
	opts = opts.withDefaults()
	if strings.TrimSpace(questionID) == "" {
		return evaluation.Photo{}, errors.New("photo requires a question id")
	}
	if camera == nil {
		return evaluation.Photo{}, ErrNoImage
	}
	waitFix := geo.Pending(ctx, locator, opts.GeoTimeout)

	img, err := camera.Acquire(ctx)
	if err != nil {
		return evaluation.Photo{}, fmt.Errorf("acquire photo: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return evaluation.Photo{}, ErrNoImage
	}
	capturedAt := opts.Now()

	photo := evaluation.Photo{
		QuestionID: questionID,
		MimeType:   "image/jpeg",
		CapturedAt: capturedAt,
	}
	lines := []string{capturedAt.Format(TimestampLayout)}
	if fix, ok := waitFix(); ok {
		photo.Geolocation = &evaluation.Geolocation{
			Latitude:  fix.Latitude,
			Longitude: fix.Longitude,
			Accuracy:  fix.Accuracy,
		}
		lines = append(lines, fix.String())
	} else if opts.OnGeoMiss != nil {
		opts.OnGeoMiss(questionID)
	}

	stamped := Watermark(Downscale(img, opts.MaxDimension), lines)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, stamped, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return evaluation.Photo{}, fmt.Errorf("encode photo: %w", err)
	}
	photo.ImageData = buf.Bytes()
	return photo, nil
}
