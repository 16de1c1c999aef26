package act
// The top-level binary layout: file header, jump table, concatenated frame bodies, and
// an optional global-palette section. Frame bodies are delegated to the per-frame
// header/palette/extents parsing below, which in turn delegates the row stream itself
// to opcode.go. Offsets throughout are jumps — 32-bit byte offsets relative to the start
// of the file, or of the frame body for the jumps inside a frame header — the
// same indirection github.com/InfinityTools/bamcreator uses for its own frame/cycle/
// lookup tables, so the buffer accessor style mirrors bam_v1.go's decodeBamV1.

import (
  "bytes"

  "github.com/InfinityTools/go-ietools/buffers"
  "github.com/InfinityTools/go-logging"
)

const (
  FILE_HEADER_SIZE             = 0x34
  FRAME_HEADER_SIZE            = 0x2C
  FRAME_EXTENTS_SIZE           = 16
  CANONICAL_FRAME_OFFSETS_JUMP = 0x34
  CANONICAL_PALETTE_JUMP       = 0x2C
)

// Decode parses buf as an ACT file, or a bare XACT payload — the same layout without
// its enclosing LFD archive container. No frame of the current decode is retained on a
// validation failure.
func Decode(buf []byte) (*Image, error) {
  logging.Logln("Decoding ACT image")

  b := buffers.Load(bytes.NewReader(buf))
  if b.Error() != nil {
    return nil, iof("%v", b.Error())
  }
  if b.BufferLength() < FILE_HEADER_SIZE {
    return nil, validationf("buffer too small for an ACT header (%d byte(s))", b.BufferLength())
  }

  frameOffsetsJump := int(b.GetUint32(0x10))
  if b.Error() != nil {
    return nil, iof("%v", b.Error())
  }
  if frameOffsetsJump != CANONICAL_FRAME_OFFSETS_JUMP {
    return nil, validationf("non-canonical frame-offsets jump 0x%X, want 0x%X", frameOffsetsJump, CANONICAL_FRAME_OFFSETS_JUMP)
  }

  numFrames := int(b.GetUint32(0x18))
  if numFrames < MIN_FRAME_COUNT || numFrames > MAX_FRAME_COUNT {
    return nil, validationf("frame count %d outside [%d,%d]", numFrames, MIN_FRAME_COUNT, MAX_FRAME_COUNT)
  }

  centerX := int(b.GetInt32(0x24))
  centerY := int(b.GetInt32(0x28))

  globalFlag := b.GetUint32(0x2C)
  if globalFlag != 0 && globalFlag != 0x18 {
    return nil, validationf("global-colors flag 0x%X is neither 0x00 nor 0x18", globalFlag)
  }
  useGlobal := globalFlag == 0x18
  numGlobalColors := int(b.GetUint32(0x30))
  globalPaletteJump := int(b.GetUint32(0x0C))

  var globalPalette []RGB
  if useGlobal {
    globalPalette = make([]RGB, numGlobalColors)
    for i := 0; i < numGlobalColors; i++ {
      ofs := globalPaletteJump + i*4
      globalPalette[i] = RGB{b.GetUint8(ofs), b.GetUint8(ofs + 1), b.GetUint8(ofs + 2)}
    }
    if b.Error() != nil {
      return nil, validationf("reading global palette: %v", b.Error())
    }
  }

  offsets := make([]int, numFrames)
  for i := 0; i < numFrames; i++ {
    offsets[i] = int(b.GetUint32(FILE_HEADER_SIZE + i*4))
  }
  if b.Error() != nil {
    return nil, validationf("reading frame-offset table: %v", b.Error())
  }

  img := newImageShell(DefaultEncodeOptions())
  img.centerX, img.centerY = centerX, centerY
  img.useGlobalColors = useGlobal
  img.globalPalette = globalPalette

  logging.Log("Importing ACT frames")
  for i, ofs := range offsets {
    logging.LogProgressDot(i, numFrames, 79-20)
    if ofs+4 > b.BufferLength() {
      return nil, validationf("frame %d offset 0x%X exceeds buffer length", i, ofs)
    }
    frameLen := int(b.GetUint32(ofs))
    frameBuf := b.GetBuffer(ofs, frameLen)
    if b.Error() != nil {
      return nil, validationf("reading frame %d body: %v", i, b.Error())
    }

    f, err := decodeFrameBody(frameBuf, centerX, centerY, useGlobal)
    if err != nil {
      return nil, validationf("frame %d: %v", i, err)
    }
    if err := img.frames.Insert(i, f); err != nil {
      return nil, err
    }
  }
  logging.OverridePrefix(false, false, false).Logln("")

  logging.Logln("Finished decoding ACT image")
  return img, nil
}

// decodeFrameBody parses one frame-length byte slice: the frame header, its own
// palette, its extents block, and its row-opcode stream.
func decodeFrameBody(data []byte, imgCenterX, imgCenterY int, useGlobal bool) (*Frame, error) {
  if len(data) < FRAME_HEADER_SIZE {
    return nil, validationf("frame buffer too small for a header (%d byte(s))", len(data))
  }
  b := buffers.Load(bytes.NewReader(data))

  paletteJump := int(b.GetUint32(0x04))
  if paletteJump != CANONICAL_PALETTE_JUMP {
    return nil, validationf("non-canonical palette jump 0x%X, want 0x%X", paletteJump, CANONICAL_PALETTE_JUMP)
  }
  imageDataJump := int(b.GetUint32(0x08))

  width := int(b.GetUint32(0x10))
  height := int(b.GetUint32(0x14))
  if width < FRAME_DIM_MIN || width > FRAME_DIM_MAX || height < FRAME_DIM_MIN || height > FRAME_DIM_MAX {
    return nil, boundaryf("frame dimensions (%d,%d) outside [%d,%d]", width, height, FRAME_DIM_MIN, FRAME_DIM_MAX)
  }

  lengthBitCount := int(b.GetUint32(0x20))
  if lengthBitCount != 3 && lengthBitCount != 4 && lengthBitCount != 5 {
    return nil, formatf("length_bit_count %d outside {3,4,5}", lengthBitCount)
  }

  colorFlag := b.GetUint32(0x24)
  if colorFlag != 0 && colorFlag != 0x18 {
    return nil, validationf("frame color flag 0x%X is neither 0x00 nor 0x18", colorFlag)
  }
  useFrameColors := colorFlag == 0x18
  if !useFrameColors && !useGlobal {
    return nil, validationf("frame disables its own colors and the parent image has no global palette active")
  }

  colorCount := int(b.GetUint32(0x28))
  if colorCount < PALETTE_LEN_MIN || colorCount > PALETTE_LEN_MAX {
    return nil, boundaryf("palette has %d entrie(s), want [%d,%d]", colorCount, PALETTE_LEN_MIN, PALETTE_LEN_MAX)
  }
  palette := make([]RGB, colorCount)
  for i := 0; i < colorCount; i++ {
    ofs := paletteJump + i*4
    palette[i] = RGB{b.GetUint8(ofs), b.GetUint8(ofs + 1), b.GetUint8(ofs + 2)}
  }
  if b.Error() != nil {
    return nil, validationf("reading frame palette: %v", b.Error())
  }

  if len(data) < imageDataJump+FRAME_EXTENTS_SIZE {
    return nil, validationf("frame buffer too small for its extents block")
  }
  left := int(b.GetInt32(imageDataJump))
  top := int(b.GetInt32(imageDataJump + 4))
  x, y := left-imgCenterX, top-imgCenterY

  rowStreamStart := imageDataJump + FRAME_EXTENTS_SIZE
  if rowStreamStart > len(data) {
    return nil, validationf("frame buffer too small for its row stream")
  }

  pixels, err := decodeFrameRows(data[rowStreamStart:], width, height, lengthBitCount)
  if err != nil {
    return nil, err
  }
  for _, p := range pixels {
    if int(p) >= len(palette) {
      return nil, validationf("pixel index %d exceeds palette length %d", p, len(palette))
    }
  }

  return newDecodedFrame(width, height, x, y, palette, useFrameColors, pixels, lengthBitCount), nil
}

// Encode rebuilds the entire file deterministically from the model. Reserved header
// bytes are always emitted as zero; nothing is read back from any previously-decoded
// byte buffer.
func (img *Image) Encode() ([]byte, error) {
  logging.Logln("Encoding ACT image")
  if err := img.Validate(); err != nil {
    return nil, err
  }

  frames := img.frames.frames
  n := len(frames)

  frameBodies := make([][]byte, n)
  totalColors := 0
  logging.Log("Exporting ACT frames")
  for i, f := range frames {
    logging.LogProgressDot(i, n, 79-20)
    frameBodies[i] = encodeFrameBody(f, img.centerX, img.centerY)
    totalColors += len(f.palette)
  }
  logging.OverridePrefix(false, false, false).Logln("")

  offsets := make([]int, n)
  offsets[0] = FILE_HEADER_SIZE + n*4
  for i := 1; i < n; i++ {
    offsets[i] = offsets[i-1] + len(frameBodies[i-1])
  }
  framesEnd := offsets[n-1] + len(frameBodies[n-1])

  totalLen := framesEnd
  globalOfs := 0
  hasGlobal := img.useGlobalColors && len(img.globalPalette) > 0
  if hasGlobal {
    globalOfs = framesEnd
    totalLen += len(img.globalPalette) * 4
  }

  out := buffers.Create()
  out.InsertBytes(0, totalLen)

  out.PutUint32(0x00, uint32(totalLen))
  out.PutUint32(0x04, uint32(totalColors))
  out.PutUint32(0x08, 0)
  out.PutUint32(0x10, uint32(CANONICAL_FRAME_OFFSETS_JUMP))
  out.PutUint32(0x14, 0)
  out.PutUint32(0x18, uint32(n))
  out.PutUint32(0x1C, uint32(img.width-1))
  out.PutUint32(0x20, uint32(img.height-1))
  out.PutInt32(0x24, int32(img.centerX))
  out.PutInt32(0x28, int32(img.centerY))

  if hasGlobal {
    out.PutUint32(0x0C, uint32(globalOfs))
    out.PutUint32(0x2C, 0x18)
    out.PutUint32(0x30, uint32(len(img.globalPalette)))
    for i, c := range img.globalPalette {
      ofs := globalOfs + i*4
      out.PutUint8(ofs, c.R)
      out.PutUint8(ofs+1, c.G)
      out.PutUint8(ofs+2, c.B)
      out.PutUint8(ofs+3, 0)
    }
  } else {
    out.PutUint32(0x0C, 0)
    out.PutUint32(0x2C, 0)
    out.PutUint32(0x30, 0)
  }

  for i, ofs := range offsets {
    out.PutUint32(FILE_HEADER_SIZE+i*4, uint32(ofs))
    out.PutBuffer(ofs, frameBodies[i])
  }

  logging.Logln("Finished encoding ACT image")
  return out.Bytes(), nil
}

// encodeFrameBody rebuilds one frame's header, its own palette, its extents block, and
// its row-opcode stream. The frame's own palette is always emitted, even when
// useFrameColors is false and the global palette is what actually gets displayed —
// mirroring the decoder, which always reads the per-frame palette bytes unconditionally.
func encodeFrameBody(f *Frame, imgCenterX, imgCenterY int) []byte {
  rowStream := encodeFrameRows(f.pixels, f.width, f.height, f.lengthBitCount)
  paletteLen := len(f.palette)
  imageDataJump := CANONICAL_PALETTE_JUMP + paletteLen*4
  bodyLen := imageDataJump + FRAME_EXTENTS_SIZE + len(rowStream)

  b := buffers.Create()
  b.InsertBytes(0, bodyLen)

  b.PutUint32(0x00, uint32(bodyLen))
  b.PutUint32(0x04, uint32(CANONICAL_PALETTE_JUMP))
  b.PutUint32(0x08, uint32(imageDataJump))
  b.PutUint32(0x0C, uint32(bodyLen))
  b.PutUint32(0x10, uint32(f.width))
  b.PutUint32(0x14, uint32(f.height))
  b.PutUint32(0x18, 0)
  b.PutUint32(0x1C, 0)
  b.PutUint32(0x20, uint32(f.lengthBitCount))
  if f.useFrameColors {
    b.PutUint32(0x24, 0x18)
  } else {
    b.PutUint32(0x24, 0)
  }
  b.PutUint32(0x28, uint32(paletteLen))

  for i, c := range f.palette {
    ofs := CANONICAL_PALETTE_JUMP + i*4
    b.PutUint8(ofs, c.R)
    b.PutUint8(ofs+1, c.G)
    b.PutUint8(ofs+2, c.B)
    b.PutUint8(ofs+3, 0)
  }

  left := imgCenterX + f.x
  top := imgCenterY + f.y
  right := left + f.width - 1
  b.PutInt32(imageDataJump, int32(left))
  b.PutInt32(imageDataJump+4, int32(top))
  b.PutInt32(imageDataJump+8, int32(right))
  b.PutInt32(imageDataJump+12, int32(top))

  b.PutBuffer(imageDataJump+FRAME_EXTENTS_SIZE, rowStream)

  return b.Bytes()
}
