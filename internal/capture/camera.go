package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"golang.org/x/image/webp"
)

// ErrNoImage is returned when a camera produced nothing to record.
var ErrNoImage = errors.New("no image captured")

// Camera acquires a raw image from the device.
type Camera interface {
	Acquire(ctx context.Context) (image.Image, error)
}

// CameraFunc adapts a function to Camera.
type CameraFunc func(ctx context.Context) (image.Image, error)

// Acquire calls f.
func (f CameraFunc) Acquire(ctx context.Context) (image.Image, error) {
	return f(ctx)
}

// FileCamera reads an image file chosen by the user.
type FileCamera struct {
	Path string
}

// Acquire reads and decodes the file.
func (c FileCamera) Acquire(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimSpace(c.Path)
	if path == "" {
		return nil, ErrNoImage
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes JPEG, PNG or GIF data, falling back to WebP.
func DecodeImage(raw []byte) (image.Image, error) {
	if len(raw) == 0 {
		return nil, ErrNoImage
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err == nil {
		return img, nil
	}
	if decoded, webpErr := webp.Decode(bytes.NewReader(raw)); webpErr == nil {
		return decoded, nil
	}
	return nil, err
}
