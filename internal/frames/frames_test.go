package frames

import (
	"errors"
	"image/color"
	"os"
	"testing"
)

var panel = Geometry{Width: 64, Height: 64}

var testPalette = color.Palette{
	color.RGBA{0, 0, 0, 255},
	color.RGBA{255, 0, 0, 255},
	color.RGBA{0, 255, 0, 255},
	color.RGBA{0, 0, 255, 255},
}

// patterned returns a bitmap whose pixels encode their position so block
// copies can be checked exactly.
func patterned(width, height int) *Bitmap {
	buf := NewBuffer(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, uint8((x*7+y*3)%len(testPalette)))
		}
	}
	return &Bitmap{Buffer: buf, Palette: testPalette}
}

type mapStore map[string]*Bitmap

func (m mapStore) Load(name string) (*Bitmap, error) {
	bm, ok := m[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return bm, nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		wantClass  SizeClass
		wantFrames int
		wantErr    bool
	}{
		{"legacy single", 32, 32, Legacy, 1, false},
		{"legacy strip", 96, 32, Legacy, 3, false},
		{"target single", 64, 64, Target, 1, false},
		{"target strip", 256, 64, Target, 4, false},
		{"height 16", 32, 16, 0, 0, true},
		{"height 48", 64, 48, 0, 0, true},
		{"legacy ragged width", 40, 32, 0, 0, true},
		{"target ragged width", 96, 64, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, n, err := panel.Classify(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedGeometry) {
					t.Errorf("Classify() error = %v, want ErrUnsupportedGeometry", err)
				}
				return
			}
			if class != tt.wantClass || n != tt.wantFrames {
				t.Errorf("Classify() = %v, %d, want %v, %d", class, n, tt.wantClass, tt.wantFrames)
			}
		})
	}
}

func TestSourceLoad(t *testing.T) {
	corrupt := patterned(32, 32)
	corrupt.Buffer.Set(5, 5, uint8(len(testPalette)))

	store := mapStore{
		"octopus":   patterned(96, 32),
		"mona-half": patterned(64, 64),
		"thin":      patterned(32, 16),
		"corrupt":   corrupt,
		"empty":     {Buffer: NewBuffer(0, 0), Palette: testPalette},
	}
	src := NewSource(store, panel)

	tests := []struct {
		name       string
		clip       string
		wantClass  SizeClass
		wantFrames int
		wantErr    error
	}{
		{name: "legacy", clip: "octopus", wantClass: Legacy, wantFrames: 3},
		{name: "target", clip: "mona-half", wantClass: Target, wantFrames: 1},
		{name: "unsupported height", clip: "thin", wantErr: ErrUnsupportedGeometry},
		{name: "missing", clip: "ghost", wantErr: ErrDecode},
		{name: "index outside palette", clip: "corrupt", wantErr: ErrDecode},
		{name: "empty", clip: "empty", wantErr: ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strip, err := src.Load(tt.clip)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load(%q) error = %v, want %v", tt.clip, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.clip, err)
			}
			if strip.Class != tt.wantClass || strip.Frames != tt.wantFrames {
				t.Errorf("Load(%q) = %v/%d frames, want %v/%d", tt.clip, strip.Class, strip.Frames, tt.wantClass, tt.wantFrames)
			}
			tw, th := panel.Tile(tt.wantClass)
			if strip.TileWidth != tw || strip.TileHeight != th {
				t.Errorf("Load(%q) tile = %dx%d, want %dx%d", tt.clip, strip.TileWidth, strip.TileHeight, tw, th)
			}
		})
	}

	_, err := src.Load("ghost")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want it to wrap os.ErrNotExist", err)
	}
}

func TestScaleLegacyBlockIdentity(t *testing.T) {
	for _, frames := range []int{1, 2, 3} {
		src := NewSource(mapStore{"clip": patterned(frames*32, 32)}, panel)
		strip, err := src.Load("clip")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		scaled, err := Scale(strip, panel)
		if err != nil {
			t.Fatalf("Scale() error = %v", err)
		}
		if scaled.Buffer.Width != frames*64 || scaled.Buffer.Height != 64 {
			t.Fatalf("Scale() size = %dx%d, want %dx64", scaled.Buffer.Width, scaled.Buffer.Height, frames*64)
		}
		if scaled.Class != Target || scaled.Frames != frames || scaled.TileWidth != 64 || scaled.TileHeight != 64 {
			t.Errorf("Scale() strip = %v/%d frames/%dx%d", scaled.Class, scaled.Frames, scaled.TileWidth, scaled.TileHeight)
		}

		for f := 0; f < frames; f++ {
			for y := 0; y < 32; y++ {
				for x := 0; x < 32; x++ {
					want := strip.At(f, x, y)
					for _, d := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
						if got := scaled.Buffer.At(f*64+2*x+d[0], 2*y+d[1]); got != want {
							t.Fatalf("frame %d pixel (%d,%d)+%v = %d, want %d", f, x, y, d, got, want)
						}
					}
				}
			}
		}
	}
}

func TestScaleTargetIdentity(t *testing.T) {
	src := NewSource(mapStore{"mona-half": patterned(128, 64)}, panel)
	strip, err := src.Load("mona-half")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	before := append([]uint8(nil), strip.Buffer.Pix...)

	scaled, err := Scale(strip, panel)
	if err != nil {
		t.Fatalf("Scale() error = %v", err)
	}
	if scaled != strip {
		t.Error("Scale() of a target strip returned a different strip")
	}
	if string(scaled.Buffer.Pix) != string(before) {
		t.Error("Scale() of a target strip changed its pixels")
	}

	again, err := Scale(scaled, panel)
	if err != nil || again != scaled {
		t.Errorf("Scale() of a scaled strip = %p, %v, want no-op", again, err)
	}
}

func TestScaleRejectsMismatchedLegacyStrip(t *testing.T) {
	strip := &Strip{
		Buffer:     NewBuffer(48, 24),
		Palette:    testPalette,
		Class:      Legacy,
		Frames:     2,
		TileWidth:  24,
		TileHeight: 24,
	}
	if _, err := Scale(strip, panel); !errors.Is(err, ErrUnsupportedGeometry) {
		t.Errorf("Scale() error = %v, want ErrUnsupportedGeometry", err)
	}
}

func TestClipError(t *testing.T) {
	err := error(&ClipError{Clip: "ghost", Err: ErrDecode})
	if !errors.Is(err, ErrDecode) {
		t.Error("ClipError does not unwrap to its cause")
	}
	if got, want := err.Error(), "clip ghost: decode failure"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
