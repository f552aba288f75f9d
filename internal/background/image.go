/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package background decodes user-selected images into the bitmap that
// becomes the canvas of a render pass.
package background

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"quotegen/internal/domain"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// Extensions lists the file extensions offered in file pickers.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// Image is a decoded background. Its natural size is the canvas size.
type Image struct {
	Bitmap image.Image
	Format string // as registered with image.RegisterFormat, e.g. "jpeg"
	Name   string // base name of the source, if known
}

// Target returns the canvas size derived from the natural image size.
func (i Image) Target() domain.CanvasTarget {
	if i.Bitmap == nil {
		return domain.CanvasTarget{}
	}
	b := i.Bitmap.Bounds()
	return domain.CanvasTarget{Width: b.Dx(), Height: b.Dy()}
}

// Decode reads one image from r. The format is sniffed from the content.
func Decode(r io.Reader) (Image, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return Image{}, ErrEmptyImage
	}
	return Image{Bitmap: img, Format: format}, nil
}

// Load decodes the image file at path.
func Load(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("%s: %w", path, err)
	}
	img.Name = filepath.Base(path)
	return img, nil
}

// Supported reports whether path has one of the Extensions.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
