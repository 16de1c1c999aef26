package act
// Adapters from common pixel-buffer shapes into the Frame's canonical 8-bit indexed
// raster. Unpacking indexed rasters is pure bit arithmetic; converting a true-color
// raster additionally needs a target palette, either supplied by the caller or derived
// with go-imagequant, and a nearest-color match per pixel against it.

import (
  "image"

  "github.com/InfinityTools/go-imagequant"
)

// unpackIndexed expands a bitsPerPixel-packed indexed raster (1, 4, or 8 bits per
// pixel, rows byte-aligned, high bits first) into one byte per pixel.
func unpackIndexed(packed []byte, bitsPerPixel, width, height int) ([]byte, error) {
  if bitsPerPixel != 1 && bitsPerPixel != 4 && bitsPerPixel != 8 {
    return nil, formatf("unsupported indexed raster depth: %d bit(s) per pixel", bitsPerPixel)
  }
  stride := (width*bitsPerPixel + 7) / 8
  if len(packed) < stride*height {
    return nil, formatf("indexed raster has %d byte(s), want at least %d for %dx%d at %d bpp", len(packed), stride*height, width, height, bitsPerPixel)
  }

  out := make([]byte, width*height)
  perByte := 8 / bitsPerPixel
  mask := byte(1<<uint(bitsPerPixel) - 1)
  for y := 0; y < height; y++ {
    row := packed[y*stride : (y+1)*stride]
    for x := 0; x < width; x++ {
      byteIdx := x / perByte
      slot := perByte - 1 - x%perByte
      shift := uint(slot * bitsPerPixel)
      out[y*width+x] = (row[byteIdx] >> shift) & mask
    }
  }
  return out, nil
}

// FrameFromIndexedRaster builds a Frame from a packed 1-, 4-, or 8-bit indexed raster.
func FrameFromIndexedRaster(packed []byte, bitsPerPixel, width, height int, palette []RGB, opts EncodeOptions) (*Frame, error) {
  pixels, err := unpackIndexed(packed, bitsPerPixel, width, height)
  if err != nil {
    return nil, err
  }
  return NewFrameFromRaster(pixels, width, height, palette, opts)
}

func squaredDistance(a, b RGB) int {
  dr := int(a.R) - int(b.R)
  dg := int(a.G) - int(b.G)
  db := int(a.B) - int(b.B)
  return dr*dr + dg*dg + db*db
}

// nearestIndex returns the palette entry closest to c under squared Euclidean distance
// in RGB space, breaking ties toward the lowest index. With shortCircuit set, the search
// stops as soon as it finds a zero-distance entry instead of scanning the rest of the
// palette.
func nearestIndex(c RGB, palette []RGB, shortCircuit bool) byte {
  best := 0
  bestDist := squaredDistance(c, palette[0])
  for i := 1; i < len(palette); i++ {
    if shortCircuit && bestDist == 0 {
      break
    }
    d := squaredDistance(c, palette[i])
    if d < bestDist {
      best, bestDist = i, d
    }
  }
  return byte(best)
}

// bgraToImage copies a 32-bit BGRA raster (4 bytes per pixel: B, G, R, A) into a
// standard library image, the shape go-imagequant's attribute API consumes.
func bgraToImage(pixels []byte, width, height int) *image.NRGBA {
  img := image.NewNRGBA(image.Rect(0, 0, width, height))
  for i := 0; i < width*height; i++ {
    b, g, r, a := pixels[i*4], pixels[i*4+1], pixels[i*4+2], pixels[i*4+3]
    o := i * 4
    img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = r, g, b, a
  }
  return img
}

// quantizeBGRA derives up to 256 colors from a 32-bit BGRA raster using go-imagequant,
// the same library bamcreator's palette-generation path uses when no explicit palette
// has been supplied.
func quantizeBGRA(pixels []byte, width, height int) ([]RGB, error) {
  att := imagequant.CreateAttributes()
  defer att.Release()
  if err := att.SetMaxColors(256); err != nil {
    return nil, formatf("configuring quantizer: %v", err)
  }

  hist := att.CreateHistogram()
  qimg := att.CreateImage(bgraToImage(pixels, width, height), 0.0)
  if qimg == nil {
    return nil, formatf("quantizer rejected the input raster")
  }
  if err := att.AddImageToHistogram(hist, qimg); err != nil {
    return nil, formatf("building quantizer histogram: %v", err)
  }

  res, err := att.QuantizeHistogram(hist)
  if err != nil {
    return nil, formatf("quantizing raster: %v", err)
  }

  palSrc := att.GetPalette(res)
  if len(palSrc) == 0 {
    return nil, formatf("quantizer produced an empty palette")
  }

  out := make([]RGB, len(palSrc))
  for i, c := range palSrc {
    r, g, b, _ := c.RGBA()
    out[i] = RGB{byte(r >> 8), byte(g >> 8), byte(b >> 8)}
  }
  return out, nil
}

// FrameFromBGRA builds a Frame from a 32-bit BGRA raster. If palette is nil, one is
// derived with go-imagequant; otherwise every pixel is mapped to its nearest entry in
// the supplied palette. Either way the result is handed to NewFrameFromRaster, which
// performs the canonical trim.
func FrameFromBGRA(pixels []byte, width, height int, palette []RGB, opts EncodeOptions) (*Frame, error) {
  if len(pixels) != width*height*4 {
    return nil, formatf("BGRA raster has %d byte(s), want %d for a %dx%d frame", len(pixels), width*height*4, width, height)
  }

  pal := palette
  if pal == nil {
    quantized, err := quantizeBGRA(pixels, width, height)
    if err != nil {
      return nil, err
    }
    pal = quantized
  }
  if len(pal) < PALETTE_LEN_MIN || len(pal) > PALETTE_LEN_MAX {
    return nil, boundaryf("palette has %d entrie(s), want [%d,%d]", len(pal), PALETTE_LEN_MIN, PALETTE_LEN_MAX)
  }

  indexed := make([]byte, width*height)
  for i := 0; i < width*height; i++ {
    c := RGB{pixels[i*4+2], pixels[i*4+1], pixels[i*4+0]}
    indexed[i] = nearestIndex(c, pal, opts.ExactMatchShortCircuit)
  }

  return NewFrameFromRaster(indexed, width, height, pal, opts)
}
