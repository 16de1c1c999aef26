package act
// Ordered, bounded list of frames with controlled mutation. Every successful
// add/insert/assign attaches the affected frame's parent back-reference (a removal
// detaches it) and triggers the owning Image's bounding-box recompute.

const (
  MIN_FRAME_COUNT = 1
  MAX_FRAME_COUNT = 20
)

// FrameCollection is the ordered list of frames belonging to one Image.
type FrameCollection struct {
  owner  *Image
  frames []*Frame
}

func newFrameCollection(owner *Image) *FrameCollection {
  return &FrameCollection{owner: owner}
}

// Count returns the number of frames currently held.
func (c *FrameCollection) Count() int { return len(c.frames) }

// At returns the frame at index.
func (c *FrameCollection) At(index int) (*Frame, error) {
  if index < 0 || index >= len(c.frames) {
    return nil, boundaryf("frame index %d out of range [0,%d)", index, len(c.frames))
  }
  return c.frames[index], nil
}

// All returns a snapshot slice of the current frames, in order. The slice is a copy;
// mutating it does not affect the collection.
func (c *FrameCollection) All() []*Frame {
  out := make([]*Frame, len(c.frames))
  copy(out, c.frames)
  return out
}

// Add appends f to the end of the collection.
func (c *FrameCollection) Add(f *Frame) error {
  return c.Insert(len(c.frames), f)
}

// Insert places f at index, shifting later frames up by one.
func (c *FrameCollection) Insert(index int, f *Frame) error {
  if f == nil {
    return statef("cannot insert a nil frame")
  }
  if len(c.frames) >= MAX_FRAME_COUNT {
    return statef("frame collection already holds the maximum of %d frames", MAX_FRAME_COUNT)
  }
  if index < 0 || index > len(c.frames) {
    return boundaryf("insert index %d out of range [0,%d]", index, len(c.frames))
  }

  c.frames = append(c.frames, nil)
  copy(c.frames[index+1:], c.frames[index:])
  c.frames[index] = f
  f.parent = c.owner
  c.owner.recomputeBounds()
  return nil
}

// RemoveAt removes the frame at index. If the collection holds only one frame, the
// removal is refused and RemoveAt returns false with a nil error, per the minimum
// frame count invariant.
func (c *FrameCollection) RemoveAt(index int) (bool, error) {
  if index < 0 || index >= len(c.frames) {
    return false, boundaryf("frame index %d out of range [0,%d)", index, len(c.frames))
  }
  if len(c.frames) <= MIN_FRAME_COUNT {
    return false, nil
  }

  c.frames[index].parent = nil
  c.frames = append(c.frames[:index], c.frames[index+1:]...)
  c.owner.recomputeBounds()
  return true, nil
}

// Assign replaces the frame at index with f.
func (c *FrameCollection) Assign(index int, f *Frame) error {
  if f == nil {
    return statef("cannot assign a nil frame")
  }
  if index < 0 || index >= len(c.frames) {
    return boundaryf("frame index %d out of range [0,%d)", index, len(c.frames))
  }

  c.frames[index].parent = nil
  f.parent = c.owner
  c.frames[index] = f
  c.owner.recomputeBounds()
  return nil
}

// SetCount resizes the collection to exactly n frames. Growing appends trailing blank
// 1x1 frames. Shrinking removes trailing frames, and is refused unless allowTruncate is
// true or n already equals the current count.
func (c *FrameCollection) SetCount(n int, allowTruncate bool) error {
  if n < MIN_FRAME_COUNT || n > MAX_FRAME_COUNT {
    return boundaryf("frame count %d outside [%d,%d]", n, MIN_FRAME_COUNT, MAX_FRAME_COUNT)
  }

  switch {
  case n == len(c.frames):
    return nil

  case n > len(c.frames):
    for len(c.frames) < n {
      if err := c.Add(newBlankFrame()); err != nil {
        return err
      }
    }
    return nil

  default:
    if !allowTruncate {
      return statef("truncating from %d to %d frames requires allowTruncate", len(c.frames), n)
    }
    for len(c.frames) > n {
      if ok, err := c.RemoveAt(len(c.frames) - 1); err != nil {
        return err
      } else if !ok {
        return statef("cannot truncate below the minimum frame count of %d", MIN_FRAME_COUNT)
      }
    }
    return nil
  }
}
