package act

// Version numbers for this package, following the same MAJOR.MINOR.PATCH
// constants the rest of the dependency stack exposes.
const (
  VERSION_MAJOR = 0
  VERSION_MINOR = 1
  VERSION_PATCH = 0
)
