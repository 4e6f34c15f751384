package amr

// Origin is the background coordinate of a refinement's bottom-left cell.
type Origin struct {
	I, J int
}

// Layout holds the fixed origins of the four refinements.
type Layout [NumPatches]Origin

// NewLayout places one refinement of nr coarse cells in each corner of an
// n × n background grid, far edges flush with the grid boundary:
// patch 0 bottom-left, 1 top-right, 2 top-left, 3 bottom-right. The
// round robin therefore alternates between opposite corners.
func NewLayout(n, nr int) Layout {
	far := n - nr - 1
	return Layout{
		{I: 0, J: 0},
		{I: far, J: far},
		{I: 0, J: far},
		{I: far, J: 0},
	}
}
