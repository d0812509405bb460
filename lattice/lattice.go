// Package lattice provides the geometry of the rotated surface code:
// grid sizing, row-major index arithmetic, and the parity-dependent
// diagonal neighborhood shared by the predecoders.
package lattice

import "fmt"

// ErrInvalidDistance indicates a code distance that is not an odd integer >= 3.
type ErrInvalidDistance struct {
	Distance int
}

func (e *ErrInvalidDistance) Error() string {
	return fmt.Sprintf("invalid code distance: %d (must be odd and >= 3)", e.Distance)
}

// Lattice describes a rotated surface code patch of odd distance d.
//
// Ancillas (syndrome bits) form a (d+1) x (d-1)/2 grid, data qubits a
// d x d grid; both are addressed in row-major order.
type Lattice struct {
	Distance      int
	SyndromeRows  int
	SyndromeCols  int
	NumSyndromes  int
	NumDataQubits int
}

// New derives the lattice for the given code distance.
func New(distance int) (Lattice, error) {
	if distance < 3 || distance%2 == 0 {
		return Lattice{}, &ErrInvalidDistance{Distance: distance}
	}
	rows := distance + 1
	cols := (distance - 1) / 2
	return Lattice{
		Distance:      distance,
		SyndromeRows:  rows,
		SyndromeCols:  cols,
		NumSyndromes:  rows * cols,
		NumDataQubits: distance * distance,
	}, nil
}

// MustNew is like New but panics on an invalid distance.
// Intended for tests and package-level fixtures.
func MustNew(distance int) Lattice {
	l, err := New(distance)
	if err != nil {
		panic(err)
	}
	return l
}

// SyndromeIndex returns the flat index of the ancilla at (row, col).
func (l Lattice) SyndromeIndex(row, col int) int {
	return row*l.SyndromeCols + col
}

// DataIndex returns the flat index of the data qubit at (row, col).
func (l Lattice) DataIndex(row, col int) int {
	return row*l.Distance + col
}

// InSyndromeGrid reports whether (row, col) addresses an existing ancilla.
func (l Lattice) InSyndromeGrid(row, col int) bool {
	return row >= 0 && row < l.SyndromeRows && col >= 0 && col < l.SyndromeCols
}

// InDataGrid reports whether (row, col) addresses an existing data qubit.
func (l Lattice) InDataGrid(row, col int) bool {
	return row >= 0 && row < l.Distance && col >= 0 && col < l.Distance
}

// Direction identifies one of the four diagonal legs around an ancilla.
type Direction int

const (
	TopRight Direction = iota
	BottomRight
	BottomLeft
	TopLeft
)

// Directions lists all four diagonal legs in the scan order the decoders use.
var Directions = [4]Direction{TopRight, BottomRight, BottomLeft, TopLeft}

func (d Direction) String() string {
	switch d {
	case TopRight:
		return "TopRight"
	case BottomRight:
		return "BottomRight"
	case BottomLeft:
		return "BottomLeft"
	case TopLeft:
		return "TopLeft"
	default:
		return fmt.Sprintf("Unknown(%d)", int(d))
	}
}

// ParityNeighbor returns the ancilla-grid position diagonally adjacent to the
// ancilla at (row, col) in this direction. Even and odd ancilla rows are
// offset by one column in the rotated lattice, hence the row-parity term.
// The returned position may lie outside the grid; check InSyndromeGrid.
func (d Direction) ParityNeighbor(row, col int) (int, int) {
	p := row % 2
	switch d {
	case TopRight:
		return row - 1, col + 1 - p
	case BottomRight:
		return row + 1, col + 1 - p
	case BottomLeft:
		return row + 1, col - p
	default: // TopLeft
		return row - 1, col - p
	}
}

// DataBetween returns the data-qubit grid position on the edge between the
// ancilla at (row, col) and its ParityNeighbor in this direction.
// The returned position may lie outside the grid; check InDataGrid.
func (d Direction) DataBetween(row, col int) (int, int) {
	p := row % 2
	switch d {
	case TopRight:
		return row - 1, 2*(col+1) - p
	case BottomRight:
		return row, 2*(col+1) - p
	case BottomLeft:
		return row, 2*(col+1) - p - 1
	default: // TopLeft
		return row - 1, 2*(col+1) - p - 1
	}
}

// HookColumn returns the data-qubit column spanned by a hook error whose
// lower ancilla sits at (row, col). The hook covers rows row-1 and row-2 of
// that column.
func HookColumn(row, col int) int {
	return 2*(col+1) - row%2 - 1
}

// PlaquetteCorners appends to dst the flat data-qubit indices of the corners
// of the plaquette measured by the ancilla at (row, col). Bulk plaquettes
// have four corners; plaquettes truncated by the top or bottom boundary have
// two. Corners are appended in top-left, top-right, bottom-left,
// bottom-right order.
func (l Lattice) PlaquetteCorners(dst []int, row, col int) []int {
	d := l.Distance

	var topLeft, bottomLeft int
	if row%2 == 0 {
		topLeft = d*(row-1) + 1 + 2*col
		bottomLeft = d*row + 1 + 2*col
	} else {
		topLeft = d*(row-1) + 2*col
		bottomLeft = d*row + 2*col
	}
	topRight := topLeft + 1
	bottomRight := bottomLeft + 1

	if topLeft >= 0 {
		dst = append(dst, topLeft)
	}
	if topRight >= 0 {
		dst = append(dst, topRight)
	}
	if bottomLeft < d*d {
		dst = append(dst, bottomLeft)
	}
	if bottomRight < d*d {
		dst = append(dst, bottomRight)
	}
	return dst
}
