package act
// Encode-time option bag, analogous in spirit to the BamV1Config/BamV2Config option bags:
// a handful of choices that are implicit in the format but worth naming in one place
// rather than scattering magic constants through the codec.

// EncodeOptions controls behavior that the binary format leaves up to the encoder.
type EncodeOptions struct {
  // TrimOnAssign controls whether assigning a raster to a Frame immediately compresses
  // its palette (removing unused slots and remapping indices). Tests that want to
  // inspect an untrimmed raster can disable this; production code should always leave
  // it enabled.
  TrimOnAssign bool

  // ExactMatchShortCircuit controls whether the raster adapter's nearest-color search
  // stops as soon as it finds a palette entry with zero distance to the source pixel,
  // instead of always scanning the full palette. Disabling this is useful only for
  // testing that the search still picks the lowest-index entry on a tie.
  ExactMatchShortCircuit bool
}

// DefaultEncodeOptions returns the option set every public constructor uses unless the
// caller overrides it explicitly, following the same CreateNew() convention as the rest
// of the stack: return a populated value rather than a zero one.
func DefaultEncodeOptions() EncodeOptions {
  return EncodeOptions{
    TrimOnAssign:           true,
    ExactMatchShortCircuit: true,
  }
}
