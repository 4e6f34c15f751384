package amr

import "github.com/banshee-data/amr-stencil/internal/stencil"

// Patch is one refinement: its grid, where it sits in the background, and
// how much work it has received.
type Patch struct {
	Index  int
	Origin Origin
	Grid   *stencil.Grid

	// Activations counts interpolations into this patch.
	Activations int
	// SubIterations counts stencil passes executed on this patch.
	SubIterations int
}

func newPatches(layout Layout, size int) [NumPatches]Patch {
	var patches [NumPatches]Patch
	for g := range patches {
		patches[g] = Patch{
			Index:  g,
			Origin: layout[g],
			Grid:   stencil.NewGrid(size),
		}
	}
	return patches
}
