package act

import (
  "errors"
  "testing"
)

func TestUnpackIndexed(t *testing.T) {
  t.Run("1 bit per pixel, byte-aligned rows", func(t *testing.T) {
    // given
    // width 4 at 1 bpp fills the high 4 bits of one byte per row; row0=1010, row1=0101
    packed := []byte{0b1010_0000, 0b0101_0000}

    // when
    pixels, err := unpackIndexed(packed, 1, 4, 2)
    if err != nil {
      t.Fatalf("unpackIndexed: %v", err)
    }

    // then
    want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
    for i := range want {
      if pixels[i] != want[i] {
        t.Fatalf("pixel[%d] = %d, want %d", i, pixels[i], want[i])
      }
    }
  })

  t.Run("4 bits per pixel", func(t *testing.T) {
    // given
    packed := []byte{0x1A, 0x2B} // nibbles: 1,10,2,11

    // when
    pixels, err := unpackIndexed(packed, 4, 4, 1)
    if err != nil {
      t.Fatalf("unpackIndexed: %v", err)
    }

    // then
    want := []byte{1, 10, 2, 11}
    for i := range want {
      if pixels[i] != want[i] {
        t.Fatalf("pixel[%d] = %d, want %d", i, pixels[i], want[i])
      }
    }
  })

  t.Run("rejects unsupported bit depth", func(t *testing.T) {
    _, err := unpackIndexed([]byte{0}, 2, 4, 1)
    if !errors.Is(err, ErrFormat) {
      t.Fatalf("err = %v, want ErrFormat", err)
    }
  })

  t.Run("rejects undersized buffer", func(t *testing.T) {
    _, err := unpackIndexed([]byte{0}, 8, 4, 1)
    if !errors.Is(err, ErrFormat) {
      t.Fatalf("err = %v, want ErrFormat", err)
    }
  })
}

func TestNearestIndex(t *testing.T) {
  palette := []RGB{{0, 0, 0}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}}

  t.Run("exact match short-circuits", func(t *testing.T) {
    if got := nearestIndex(RGB{0, 255, 0}, palette, true); got != 2 {
      t.Fatalf("nearestIndex = %d, want 2", got)
    }
  })

  t.Run("nearest among unequal distances", func(t *testing.T) {
    if got := nearestIndex(RGB{10, 0, 0}, palette, true); got != 0 {
      t.Fatalf("nearestIndex = %d, want 0", got)
    }
  })

  t.Run("ties favor the lowest index", func(t *testing.T) {
    // given: a color equidistant from red (index 1) and green (index 2)
    c := RGB{128, 128, 0}

    // when
    got := nearestIndex(c, palette, true)

    // then
    if got != 1 {
      t.Fatalf("nearestIndex = %d, want 1 (lowest of the tied indices)", got)
    }
  })

  t.Run("disabling the short circuit does not change the result", func(t *testing.T) {
    // given: an exact match that is not the first palette entry
    c := RGB{0, 0, 255}

    // when
    got := nearestIndex(c, palette, false)

    // then
    if got != 3 {
      t.Fatalf("nearestIndex = %d, want 3", got)
    }
  })
}

func TestFrameFromIndexedRaster(t *testing.T) {
  t.Run("unpacks and trims in one step", func(t *testing.T) {
    // given
    packed := []byte{0x11, 0x11} // every pixel index 1, at 4 bpp, width 2, two 1-byte rows
    palette := []RGB{{0, 0, 0}, {5, 5, 5}, {9, 9, 9}}

    // when
    f, err := FrameFromIndexedRaster(packed, 4, 2, 2, palette, DefaultEncodeOptions())
    if err != nil {
      t.Fatalf("FrameFromIndexedRaster: %v", err)
    }

    // then
    if len(f.Palette()) != 2 {
      t.Fatalf("palette length = %d, want 2 after trimming the unused entry", len(f.Palette()))
    }
  })
}

func TestFrameFromBGRANearestMatchAgainstExplicitPalette(t *testing.T) {
  t.Run("every pixel maps to its closest palette entry", func(t *testing.T) {
    // given
    // 2x1 BGRA raster: pure blue, then pure red
    pixels := []byte{
      255, 0, 0, 255, // B,G,R,A = blue opaque
      0, 0, 255, 255, // B,G,R,A = red opaque
    }
    palette := []RGB{{0, 0, 0}, {255, 0, 0}, {0, 0, 255}}

    // when
    f, err := FrameFromBGRA(pixels, 2, 1, palette, EncodeOptions{TrimOnAssign: false})
    if err != nil {
      t.Fatalf("FrameFromBGRA: %v", err)
    }

    // then
    px := f.Pixels()
    if px[0] != 2 {
      t.Fatalf("pixel[0] = %d, want 2 (blue)", px[0])
    }
    if px[1] != 1 {
      t.Fatalf("pixel[1] = %d, want 1 (red)", px[1])
    }
  })

  t.Run("rejects a raster whose length does not match width*height*4", func(t *testing.T) {
    _, err := FrameFromBGRA([]byte{0, 0, 0}, 2, 1, []RGB{{0, 0, 0}}, DefaultEncodeOptions())
    if !errors.Is(err, ErrFormat) {
      t.Fatalf("err = %v, want ErrFormat", err)
    }
  })
}
