/*
Package act reads, edits, and writes ACT images: a multi-frame paletted raster format
built around a binary frame-offset table, a row-opcode pixel stream, and a composite
frame model sharing a single center and a bounding box derived from it.
*/
package act
// The top-level composite: a shared center, an ordered frame collection, an optional
// global palette, and a derived overall bounding box that every mutation recomputes.

import (
  "os"
  "path/filepath"
  "strings"

  "github.com/InfinityTools/go-logging"
)

const (
  IMAGE_DIM_MIN = 1
  IMAGE_DIM_MAX = 65536
)

// Image is the top-level composite raster this package builds, edits, and encodes.
type Image struct {
  width, height    int
  centerX, centerY int

  frames *FrameCollection

  globalPalette   []RGB
  useGlobalColors bool

  path string
  opts EncodeOptions
}

func newImageShell(opts EncodeOptions) *Image {
  img := &Image{opts: opts}
  img.frames = newFrameCollection(img)
  return img
}

// NewFromRaster builds a one-frame Image from an externally supplied 8-bit indexed
// raster, centered on the frame (fw/2, fh/2).
func NewFromRaster(pixels []byte, width, height int, palette []RGB) (*Image, error) {
  opts := DefaultEncodeOptions()
  f, err := NewFrameFromRaster(pixels, width, height, palette, opts)
  if err != nil {
    return nil, err
  }

  img := newImageShell(opts)
  img.centerX, img.centerY = width/2, height/2
  f.x, f.y = -width/2, -height/2
  if err := img.frames.Add(f); err != nil {
    return nil, err
  }
  return img, nil
}

// Frames returns the image's frame collection.
func (img *Image) Frames() *FrameCollection { return img.frames }

// Center returns the shared anchor point that every frame's offset is relative to.
func (img *Image) Center() (int, int) { return img.centerX, img.centerY }

// Size returns the composite bounding-box size.
func (img *Image) Size() (int, int) { return img.width, img.height }

// Path returns the image's associated file path. It is pure metadata; it does not have
// to point at an existing file.
func (img *Image) Path() string { return img.path }

// SetPath assigns the image's associated file path.
func (img *Image) SetPath(path string) { img.path = path }

// UseGlobalColors reports whether the image's global palette should be used for frames
// that have disabled their own.
func (img *Image) UseGlobalColors() bool { return img.useGlobalColors }

// SetUseGlobalColors toggles the image's global-palette flag. Disabling it fails if any
// frame has also disabled its own frame colors, since at least one color source must
// stay active for every frame.
func (img *Image) SetUseGlobalColors(use bool) error {
  if !use {
    for i, f := range img.frames.frames {
      if !f.useFrameColors {
        return validationf("cannot disable global colors: frame %d has no palette of its own", i)
      }
    }
  }
  img.useGlobalColors = use
  return nil
}

// GlobalPalette returns a copy of the image's optional global palette, or nil if none
// is set.
func (img *Image) GlobalPalette() []RGB {
  if img.globalPalette == nil {
    return nil
  }
  out := make([]RGB, len(img.globalPalette))
  copy(out, img.globalPalette)
  return out
}

// SetGlobalPalette assigns the image's optional global palette. Pass nil to clear it
// (this also disables UseGlobalColors, since there would be nothing left to use).
func (img *Image) SetGlobalPalette(palette []RGB) error {
  if palette != nil && len(palette) > PALETTE_LEN_MAX {
    return boundaryf("global palette has %d entrie(s), want at most %d", len(palette), PALETTE_LEN_MAX)
  }
  if palette == nil {
    img.globalPalette = nil
    img.useGlobalColors = false
    return nil
  }
  out := make([]RGB, len(palette))
  copy(out, palette)
  img.globalPalette = out
  return nil
}

// recomputeBounds re-derives the composite size and re-anchors the center so that the
// bounding box of every frame's translated rectangle starts at (0,0). Per-frame offsets
// are never adjusted; only the shared center moves.
func (img *Image) recomputeBounds() {
  if img.frames.Count() == 0 {
    return
  }

  var left, top, right, bottom int
  for i, f := range img.frames.frames {
    l := img.centerX + f.x
    t := img.centerY + f.y
    r := l + f.width - 1
    b := t + f.height - 1
    if i == 0 {
      left, top, right, bottom = l, t, r, b
      continue
    }
    if l < left {
      left = l
    }
    if t < top {
      top = t
    }
    if r > right {
      right = r
    }
    if b > bottom {
      bottom = b
    }
  }

  img.centerX -= left
  img.centerY -= top
  img.width = right - left + 1
  img.height = bottom - top + 1
}

// Validate re-checks the image's structural invariants against its current state (frame
// count, image size, each frame's extent within the bounding box, an active color source
// per frame, pixel indices within the palette), for callers that want an explicit
// consistency pass after a batch of mutations rather than relying solely on each
// mutator's own checks. Palette density is not checked: a palette with unused slots
// passes.
func (img *Image) Validate() error {
  if img.frames.Count() < MIN_FRAME_COUNT || img.frames.Count() > MAX_FRAME_COUNT {
    return validationf("frame count %d outside [%d,%d]", img.frames.Count(), MIN_FRAME_COUNT, MAX_FRAME_COUNT)
  }
  if img.width < 1 || img.width > IMAGE_DIM_MAX || img.height < 1 || img.height > IMAGE_DIM_MAX {
    return boundaryf("image size (%d,%d) outside [%d,%d]", img.width, img.height, IMAGE_DIM_MIN, IMAGE_DIM_MAX)
  }

  for i, f := range img.frames.frames {
    l := img.centerX + f.x
    t := img.centerY + f.y
    if l < 0 || l+f.width > img.width {
      return validationf("frame %d horizontal extent [%d,%d) escapes image width %d", i, l, l+f.width, img.width)
    }
    if t < 0 || t+f.height > img.height {
      return validationf("frame %d vertical extent [%d,%d) escapes image height %d", i, t, t+f.height, img.height)
    }
    if !f.useFrameColors && !img.useGlobalColors {
      return validationf("frame %d and the image both have their color source disabled", i)
    }
    for _, p := range f.pixels {
      if int(p) >= len(f.palette) {
        return validationf("frame %d pixel index %d exceeds palette length %d", i, p, len(f.palette))
      }
    }
  }
  return nil
}

// FindFrameAt returns the index of the topmost (highest-index) frame whose translated
// rectangle covers the composite-space point (px, py), walking back to front so a
// later frame wins ties, the way on-screen draw order would.
func (img *Image) FindFrameAt(px, py int) (int, bool) {
  for i := img.frames.Count() - 1; i >= 0; i-- {
    f := img.frames.frames[i]
    l := img.centerX + f.x
    t := img.centerY + f.y
    if px >= l && px < l+f.width && py >= t && py < t+f.height {
      return i, true
    }
  }
  return 0, false
}

// Clone returns a deep copy of the image, including independently-owned frames.
func (img *Image) Clone() *Image {
  out := newImageShell(img.opts)
  out.width, out.height = img.width, img.height
  out.centerX, out.centerY = img.centerX, img.centerY
  out.useGlobalColors = img.useGlobalColors
  out.path = img.path
  if img.globalPalette != nil {
    out.globalPalette = make([]RGB, len(img.globalPalette))
    copy(out.globalPalette, img.globalPalette)
  }
  for _, f := range img.frames.frames {
    clone := f.Clone()
    clone.parent = out
    out.frames.frames = append(out.frames.frames, clone)
  }
  return out
}

func hasActExtension(path string) bool {
  return strings.EqualFold(filepath.Ext(path), ".act")
}

// Open loads an Image from the file at path. path must carry a case-insensitive .ACT
// extension.
func Open(path string) (*Image, error) {
  if !hasActExtension(path) {
    return nil, statef("%s does not have a .ACT extension", path)
  }
  data, err := os.ReadFile(path)
  if err != nil {
    return nil, iof("reading %s: %v", path, err)
  }
  img, err := Decode(data)
  if err != nil {
    return nil, err
  }
  img.path = path
  return img, nil
}

// Save writes the image back to its associated path, which must already carry a
// case-insensitive .ACT extension (this is how a bare XACT payload that was decoded
// from an archive, and never repathed, is caught).
func (img *Image) Save() error {
  if img.path == "" {
    return statef("image has no associated path; use SaveTo")
  }
  return img.SaveTo(img.path)
}

// SaveTo encodes the image and writes it to path, which must carry a case-insensitive
// .ACT extension. The write is atomic: the prior file at path, if any, is preserved in
// a sibling backup until the new file is in place, and restored if the write fails.
func (img *Image) SaveTo(path string) error {
  if !hasActExtension(path) {
    return statef("%s does not have a .ACT extension", path)
  }

  data, err := img.Encode()
  if err != nil {
    return err
  }

  backup := path + ".bak"
  hadOriginal := false
  if _, statErr := os.Stat(path); statErr == nil {
    if err := os.Rename(path, backup); err != nil {
      return iof("backing up %s: %v", path, err)
    }
    hadOriginal = true
  }

  if err := os.WriteFile(path, data, 0644); err != nil {
    if hadOriginal {
      os.Rename(backup, path)
    }
    return iof("writing %s: %v", path, err)
  }

  if hadOriginal {
    os.Remove(backup)
  }
  img.path = path
  logging.Logf("Wrote %s (%d bytes)\n", path, len(data))
  return nil
}
