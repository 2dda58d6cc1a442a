package timeline

import "path/filepath"

// Resolver turns preset references from a timeline into filesystem paths.
type Resolver struct {
	// BaseDir is the preset directory relative references resolve against.
	BaseDir string
}

// Resolve returns the path for ref. It reports false for an empty
// reference. Absolute references are returned unchanged. Relative
// references are joined to BaseDir and canonicalised; with no BaseDir
// they are returned unchanged.
func (r Resolver) Resolve(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if filepath.IsAbs(ref) || r.BaseDir == "" {
		return ref, true
	}
	joined := filepath.Join(r.BaseDir, ref)
	if abs, err := filepath.Abs(joined); err == nil {
		return abs, true
	}
	return joined, true
}

// NeedsBase reports whether t names a relative preset that cannot be
// resolved because BaseDir is empty.
func (r Resolver) NeedsBase(t *Timeline) bool {
	if r.BaseDir != "" {
		return false
	}
	for i := 0; i < t.Len(); i++ {
		if !filepath.IsAbs(t.At(i).Preset) {
			return true
		}
	}
	return false
}
