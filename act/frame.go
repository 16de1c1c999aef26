package act
// One rectangular frame: dimensions, palette, origin offset relative to the parent
// image's center, and an 8-bit indexed raster. A Frame never outlives the collection
// that owns it; parent is a non-owning back-reference used only to read the center/size
// needed to validate an offset and to trigger a bounding-box recompute, per the
// cyclic-back-reference note in the design notes.

import (
  "image"
  "image/color"
)

// RGB is one 3-byte palette entry. The reserved fourth disk byte is never modeled here;
// it is always zero on encode.
type RGB struct {
  R, G, B byte
}

const (
  FRAME_DIM_MIN        = 1
  FRAME_DIM_MAX        = 256
  FRAME_COORD_UNIVERSE = 256 // the coordinate universe an offset is validated against
  PALETTE_LEN_MIN      = 1
  PALETTE_LEN_MAX      = 256
)

// Frame is one image within an Image's frame collection.
type Frame struct {
  parent *Image

  width, height int
  x, y          int
  located       bool // false only before any placement, explicit or default, has been made

  palette        []RGB
  useFrameColors bool

  pixels         []byte
  lengthBitCount int
}

// NewFrameFromRaster builds a Frame from an 8-bit indexed raster and its palette,
// trimming unused palette slots (other than slot 0) and remapping pixel bytes. The
// frame is placed at the default center offset (-w/2, -h/2); callers
// that need an explicit placement should call SetXY after attaching the frame to an
// Image's collection.
func NewFrameFromRaster(pixels []byte, width, height int, palette []RGB, opts EncodeOptions) (*Frame, error) {
  if width < FRAME_DIM_MIN || width > FRAME_DIM_MAX || height < FRAME_DIM_MIN || height > FRAME_DIM_MAX {
    return nil, boundaryf("frame dimensions (%d,%d) outside [%d,%d]", width, height, FRAME_DIM_MIN, FRAME_DIM_MAX)
  }
  if len(pixels) != width*height {
    return nil, formatf("raster has %d byte(s), want %d for a %dx%d frame", len(pixels), width*height, width, height)
  }
  if len(palette) < PALETTE_LEN_MIN || len(palette) > PALETTE_LEN_MAX {
    return nil, boundaryf("palette has %d entrie(s), want [%d,%d]", len(palette), PALETTE_LEN_MIN, PALETTE_LEN_MAX)
  }
  for _, p := range pixels {
    if int(p) >= len(palette) {
      return nil, validationf("pixel index %d exceeds palette length %d", p, len(palette))
    }
  }

  pal, px := palette, pixels
  if opts.TrimOnAssign {
    pal, px = trimPalette(pixels, palette)
  }

  f := &Frame{
    width:          width,
    height:         height,
    palette:        pal,
    pixels:         px,
    useFrameColors: true,
    lengthBitCount: computeLengthBitCount(len(pal), width),
  }
  f.x, f.y = -width/2, -height/2
  f.located = true
  return f, nil
}

// newDecodedFrame builds a Frame from already-validated decoded fields, without
// re-trimming the palette: length_bit_count and palette order are preserved exactly as
// read from disk.
func newDecodedFrame(width, height, x, y int, palette []RGB, useFrameColors bool, pixels []byte, lengthBitCount int) *Frame {
  return &Frame{
    width:          width,
    height:         height,
    x:              x,
    y:              y,
    located:        true,
    palette:        palette,
    useFrameColors: useFrameColors,
    pixels:         pixels,
    lengthBitCount: lengthBitCount,
  }
}

// trimPalette compresses palette down to the entries pixels actually use (slot 0 is
// always kept regardless of use) and remaps pixel bytes to the new, denser indices.
func trimPalette(pixels []byte, palette []RGB) ([]RGB, []byte) {
  used := make([]bool, len(palette))
  used[0] = true
  for _, p := range pixels {
    used[p] = true
  }

  remap := make([]byte, len(palette))
  trimmed := make([]RGB, 0, len(palette))
  for i, keep := range used {
    if keep {
      remap[i] = byte(len(trimmed))
      trimmed = append(trimmed, palette[i])
    }
  }

  out := make([]byte, len(pixels))
  for i, p := range pixels {
    out[i] = remap[p]
  }
  return trimmed, out
}

// computeLengthBitCount picks the canonical Short-opcode field width for a palette of
// the given length used in a frame of the given width.
func computeLengthBitCount(paletteLen, frameWidth int) int {
  switch {
  case paletteLen <= 8:
    return 5
  case paletteLen <= 16 || frameWidth <= 16:
    return 4
  default:
    return 3
  }
}

// Width returns the frame's pixel width.
func (f *Frame) Width() int { return f.width }

// Height returns the frame's pixel height.
func (f *Frame) Height() int { return f.height }

// X returns the frame's horizontal offset relative to its parent's center.
func (f *Frame) X() int { return f.x }

// Y returns the frame's vertical offset relative to its parent's center.
func (f *Frame) Y() int { return f.y }

// Located reports whether the frame has ever been given an explicit or default
// placement. Every frame returned by a public constructor is already located;
// this exists for callers that build a Frame value by hand in tests.
func (f *Frame) Located() bool { return f.located }

// LengthBitCount returns the run-length field width used by this frame's Short
// opcodes.
func (f *Frame) LengthBitCount() int { return f.lengthBitCount }

// UseFrameColors reports whether this frame's own palette should be used for display,
// as opposed to the parent image's global palette.
func (f *Frame) UseFrameColors() bool { return f.useFrameColors }

// SetUseFrameColors toggles whether this frame's own palette is used for display.
// Disabling it fails if the parent image's global colors are also disabled, since at
// least one color source must remain active.
func (f *Frame) SetUseFrameColors(use bool) error {
  if !use && f.parent != nil && !f.parent.UseGlobalColors() {
    return validationf("cannot disable frame colors: parent image has no global palette active")
  }
  f.useFrameColors = use
  return nil
}

// Palette returns a copy of the frame's palette.
func (f *Frame) Palette() []RGB {
  out := make([]RGB, len(f.palette))
  copy(out, f.palette)
  return out
}

// Color returns the palette entry at index.
func (f *Frame) Color(index int) (RGB, error) {
  if index < 0 || index >= len(f.palette) {
    return RGB{}, boundaryf("palette index %d out of range [0,%d)", index, len(f.palette))
  }
  return f.palette[index], nil
}

// SetColor replaces the palette entry at index, including index 0 (the stored color
// value for the transparent slot is otherwise ignored at display, but is still
// preserved on encode). Recoloring a slot never trims the palette.
func (f *Frame) SetColor(index int, c RGB) error {
  if index < 0 || index >= len(f.palette) {
    return boundaryf("palette index %d out of range [0,%d)", index, len(f.palette))
  }
  f.palette[index] = c
  return nil
}

// Pixels returns a copy of the frame's indexed raster, width*height bytes, top-down and
// left-to-right.
func (f *Frame) Pixels() []byte {
  out := make([]byte, len(f.pixels))
  copy(out, f.pixels)
  return out
}

// SetRaster replaces both the frame's pixel data and its palette, re-validating and
// re-trimming exactly as NewFrameFromRaster does. The frame's dimensions do not change.
func (f *Frame) SetRaster(pixels []byte, palette []RGB, opts EncodeOptions) error {
  if len(pixels) != f.width*f.height {
    return formatf("raster has %d byte(s), want %d for a %dx%d frame", len(pixels), f.width*f.height, f.width, f.height)
  }
  if len(palette) < PALETTE_LEN_MIN || len(palette) > PALETTE_LEN_MAX {
    return boundaryf("palette has %d entrie(s), want [%d,%d]", len(palette), PALETTE_LEN_MIN, PALETTE_LEN_MAX)
  }
  for _, p := range pixels {
    if int(p) >= len(palette) {
      return validationf("pixel index %d exceeds palette length %d", p, len(palette))
    }
  }

  pal, px := palette, pixels
  if opts.TrimOnAssign {
    pal, px = trimPalette(pixels, palette)
  }
  f.palette = pal
  f.pixels = px
  f.lengthBitCount = computeLengthBitCount(len(pal), f.width)
  return nil
}

// SetPixels replaces the frame's pixel data against its existing palette, trimming
// unused slots per the default encode options.
func (f *Frame) SetPixels(pixels []byte) error {
  return f.SetRaster(pixels, f.palette, DefaultEncodeOptions())
}

// SetX sets the frame's horizontal offset relative to its parent's center, validating
// against the parent's center and the 256-pixel coordinate universe, then triggers a
// bounding-box recompute on the parent.
func (f *Frame) SetX(x int) error {
  if f.parent == nil {
    return statef("frame is not attached to an image")
  }
  cx, _ := f.parent.Center()
  lo, hi := -cx, FRAME_COORD_UNIVERSE-f.width-cx
  if x < lo || x > hi {
    return boundaryf("x %d outside [%d,%d] for center x=%d, width=%d", x, lo, hi, cx, f.width)
  }
  f.x = x
  f.located = true
  f.parent.recomputeBounds()
  return nil
}

// SetY sets the frame's vertical offset relative to its parent's center, validating
// against the parent's center and the 256-pixel coordinate universe, then triggers a
// bounding-box recompute on the parent.
func (f *Frame) SetY(y int) error {
  if f.parent == nil {
    return statef("frame is not attached to an image")
  }
  _, cy := f.parent.Center()
  lo, hi := -cy, FRAME_COORD_UNIVERSE-f.height-cy
  if y < lo || y > hi {
    return boundaryf("y %d outside [%d,%d] for center y=%d, height=%d", y, lo, hi, cy, f.height)
  }
  f.y = y
  f.located = true
  f.parent.recomputeBounds()
  return nil
}

// SetXY sets both offsets and recomputes the parent's bounding box once, instead of
// twice as two separate SetX/SetY calls would.
func (f *Frame) SetXY(x, y int) error {
  if f.parent == nil {
    return statef("frame is not attached to an image")
  }
  cx, cy := f.parent.Center()
  loX, hiX := -cx, FRAME_COORD_UNIVERSE-f.width-cx
  loY, hiY := -cy, FRAME_COORD_UNIVERSE-f.height-cy
  if x < loX || x > hiX {
    return boundaryf("x %d outside [%d,%d] for center x=%d, width=%d", x, loX, hiX, cx, f.width)
  }
  if y < loY || y > hiY {
    return boundaryf("y %d outside [%d,%d] for center y=%d, height=%d", y, loY, hiY, cy, f.height)
  }
  f.x, f.y = x, y
  f.located = true
  f.parent.recomputeBounds()
  return nil
}

// Clone returns a deep copy of the frame, detached from any parent image.
func (f *Frame) Clone() *Frame {
  pal := make([]RGB, len(f.palette))
  copy(pal, f.palette)
  px := make([]byte, len(f.pixels))
  copy(px, f.pixels)
  return &Frame{
    width:          f.width,
    height:         f.height,
    x:              f.x,
    y:              f.y,
    located:        f.located,
    palette:        pal,
    useFrameColors: f.useFrameColors,
    pixels:         px,
    lengthBitCount: f.lengthBitCount,
  }
}

// Image renders the frame as a standard library *image.Paletted, with palette slot 0
// given alpha 0 (transparent) and every other slot alpha 255, for interop with code
// that wants to draw or re-encode the frame through image/draw or image/png.
func (f *Frame) Image() *image.Paletted {
  pal := make(color.Palette, len(f.palette))
  for i, c := range f.palette {
    a := byte(255)
    if i == 0 {
      a = 0
    }
    pal[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: a}
  }
  img := image.NewPaletted(image.Rect(0, 0, f.width, f.height), pal)
  copy(img.Pix, f.pixels)
  return img
}

func newBlankFrame() *Frame {
  f := &Frame{
    width:          1,
    height:         1,
    palette:        []RGB{{0, 0, 0}},
    pixels:         []byte{0},
    useFrameColors: true,
    lengthBitCount: 5,
  }
  f.x, f.y = 0, 0
  f.located = true
  return f
}
