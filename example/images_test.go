package main

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeImages(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, size := range []int{3, 5, 7} {
		path := filepath.Join(dir, string(rune('a'+i))+".png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, size, size))); err != nil {
			t.Fatal(err)
		}
		f.Close()
		paths = append(paths, path)
	}

	images, err := decodeImages(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	for i, size := range []int{3, 5, 7} {
		if images[i].Bounds().Dx() != size {
			t.Errorf("image %d: expected width %d, got %d", i, size, images[i].Bounds().Dx())
		}
	}

	if _, err := decodeImages(context.Background(), append(paths, filepath.Join(dir, "missing.png"))); err == nil {
		t.Error("expected a missing file to fail")
	}
}

func TestProceduralImages(t *testing.T) {
	images := proceduralImages(5, 16)
	if len(images) != 5 {
		t.Fatalf("expected 5 images, got %d", len(images))
	}
	for _, img := range images {
		if img.Bounds() != image.Rect(0, 0, 16, 16) {
			t.Errorf("unexpected bounds %v", img.Bounds())
		}
	}
}
