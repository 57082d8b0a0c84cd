package rjava

import (
	"errors"
	"fmt"
)

// ErrPackageCountMismatch is returned before any file I/O when the number of
// target packages does not match the number of own-symbol-list paths.
var ErrPackageCountMismatch = errors.New("need one symbol list per extra package")

// UnresolvedSymbolError reports an own-symbol-list reference that is absent
// from the base table. This means the build graph upstream is inconsistent,
// so the whole run is aborted.
type UnresolvedSymbolError struct {
	Resource string
	Name     string
	Package  string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("symbol %s/%s requested by package %s is not present in the base table", e.Resource, e.Name, e.Package)
}

// OutputCollisionError reports two packages in one run mapping to the same
// output file. Silently letting the second write win would merge two
// packages' outputs.
type OutputCollisionError struct {
	Path     string
	Packages [2]string
}

func (e *OutputCollisionError) Error() string {
	return fmt.Sprintf("packages %s and %s both map to output %s", e.Packages[0], e.Packages[1], e.Path)
}
