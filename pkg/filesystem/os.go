package filesystem

import (
	"github.com/spf13/afero"

	"github.com/arthur-debert/hostprep/pkg/types"
)

// NewOS returns the real filesystem. afero's OsFs supports symlinks
// natively, so no link emulation is involved.
func NewOS() types.FS {
	return NewAferoFS(afero.NewOsFs())
}
