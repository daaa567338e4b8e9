package generators

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// ImageMap seeds the simulation from an image file. The red channel carries
// terrain height; green, blue and alpha optionally carry initial water depth,
// suspended sediment and surface hardness for full-state seeding.
type ImageMap struct {
	width, height int
	heightmap     []float32
	water         []float32
	sediment      []float32
	hardness      []float32
}

// LoadImageMap reads and decodes the file at path. PNG is always available;
// any other format registered with image.RegisterFormat works too.
func LoadImageMap(path string) (*ImageMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image map: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image map %s: %w", path, err)
	}
	return NewImageMap(img), nil
}

// NewImageMap converts a decoded image into per-channel fields.
func NewImageMap(img image.Image) *ImageMap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := &ImageMap{
		width:     w,
		height:    h,
		heightmap: make([]float32, w*h),
		water:     make([]float32, w*h),
		sediment:  make([]float32, w*h),
		hardness:  make([]float32, w*h),
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			m.heightmap[i] = float32(r) / 0xffff
			m.water[i] = float32(g) / 0xffff
			m.sediment[i] = float32(b) / 0xffff
			m.hardness[i] = float32(a) / 0xffff
			i++
		}
	}
	return m
}

// Generate is a no-op; the fields are fixed by the source image.
func (m *ImageMap) Generate() {}

// Dimensions reports the image size.
func (m *ImageMap) Dimensions() (int, int) {
	return m.width, m.height
}

// Heightmap exposes the terrain channel.
func (m *ImageMap) Heightmap() []float32 {
	return m.heightmap
}

// Channels exposes the four state channels for full seeding.
func (m *ImageMap) Channels() (terrain, water, sediment, hardness []float32) {
	return m.heightmap, m.water, m.sediment, m.hardness
}

// WriteHeightmapPNG encodes a heightmap as 16-bit grayscale PNG. Values are
// clamped to [0, 1].
func WriteHeightmapPNG(path string, width, height int, heightmap []float32) error {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := heightmap[y*width+x]
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(v * 0xffff)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heightmap png: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode heightmap png: %w", err)
	}
	return nil
}
