package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/vangroan/grok-glow/internal/pattern"
)

// decodeImages decodes every file concurrently. The result keeps the
// order of paths; the first failure cancels the rest.
func decodeImages(ctx context.Context, paths []string) ([]image.Image, error) {
	images := make([]image.Image, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeFile(path)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// proceduralImages returns n size x size images cycling through a few
// patterns in different colors.
func proceduralImages(n int, size int) []image.Image {
	colors := pattern.Palette(n)
	dark := color.RGBA{R: 24, G: 24, B: 28, A: 255}
	images := make([]image.Image, n)
	for i, c := range colors {
		switch i % 3 {
		case 0:
			images[i] = pattern.Checker(size, size, size/4, c, dark)
		case 1:
			images[i] = pattern.Gradient(size, size, c, dark)
		default:
			images[i] = pattern.Disc(size, size, c)
		}
	}
	return images
}
