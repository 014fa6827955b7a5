package hazard

import (
	"strings"
	"testing"
)

// stubGrid is a sparse in-memory tile grid for tests. Cells default to
// neither standable nor solid (think: out-of-bounds air).
type stubGrid struct {
	standable map[[2]int]bool
	solid     map[[2]int]bool
	types     map[[2]int]int
}

func newStubGrid() *stubGrid {
	return &stubGrid{
		standable: make(map[[2]int]bool),
		solid:     make(map[[2]int]bool),
		types:     make(map[[2]int]int),
	}
}

func (g *stubGrid) IsTileStandable(x, y int) bool { return g.standable[[2]int{x, y}] }
func (g *stubGrid) IsTileSolid(x, y int) bool     { return g.solid[[2]int{x, y}] }
func (g *stubGrid) GetTileType(x, y int) int      { return g.types[[2]int{x, y}] }

func (g *stubGrid) setStandable(x, y int) { g.standable[[2]int{x, y}] = true }
func (g *stubGrid) setSolid(x, y int)     { g.solid[[2]int{x, y}] = true }

func TestValidClimbExitsSymmetry(t *testing.T) {
	v := NewClimbValidator(newStubGrid())
	exits := v.ValidClimbExits(5, 3)
	if len(exits) != 2 {
		t.Fatalf("exit count = %d, want 2", len(exits))
	}
	left, right := exits[0], exits[1]
	if left.X != 4 || left.Y != 2 || left.Direction != ExitLeft {
		t.Errorf("left exit = %+v, want (4,2) left", left)
	}
	if right.X != 6 || right.Y != 2 || right.Direction != ExitRight {
		t.Errorf("right exit = %+v, want (6,2) right", right)
	}
	// On an all-empty grid neither exit is valid, but both are reported.
	if left.Valid || right.Valid {
		t.Error("exits valid on empty grid")
	}
}

func TestExitValidityConditions(t *testing.T) {
	// Scenario: (4,2) standable with solid (4,3) under it, (6,2) not standable.
	g := newStubGrid()
	g.setStandable(4, 2)
	g.setSolid(4, 3)
	v := NewClimbValidator(g)

	exits := v.ValidClimbExits(5, 3)
	if !exits[0].Valid {
		t.Error("left exit should be valid: standable with solid support")
	}
	if exits[1].Valid {
		t.Error("right exit should be invalid: not standable")
	}
	if !v.CanClimbOut(5, 3) {
		t.Error("CanClimbOut false with one valid exit")
	}
	best := v.BestClimbExit(5, 3)
	if best == nil || best.Direction != ExitLeft {
		t.Errorf("BestClimbExit = %+v, want left", best)
	}
}

func TestExitRequiresSupportBelow(t *testing.T) {
	g := newStubGrid()
	g.setStandable(4, 2) // destination open, but nothing under it
	v := NewClimbValidator(g)
	if v.ValidClimbExits(5, 3)[0].Valid {
		t.Error("exit over a void should be invalid")
	}

	// Standable support works as well as solid support.
	g.setStandable(4, 3)
	if !v.ValidClimbExits(5, 3)[0].Valid {
		t.Error("standable support should validate the exit")
	}
}

func TestBestClimbExitPrefersRight(t *testing.T) {
	g := newStubGrid()
	for _, c := range [][2]int{{4, 2}, {6, 2}} {
		g.setStandable(c[0], c[1])
	}
	g.setSolid(4, 3)
	g.setSolid(6, 3)
	v := NewClimbValidator(g)

	best := v.BestClimbExit(5, 3)
	if best == nil {
		t.Fatal("BestClimbExit nil with both exits valid")
	}
	if best.Direction != ExitRight {
		t.Errorf("tie-break direction = %s, want right", best.Direction)
	}
}

func TestBestClimbExitNilWhenNoneValid(t *testing.T) {
	v := NewClimbValidator(newStubGrid())
	if best := v.BestClimbExit(5, 3); best != nil {
		t.Errorf("BestClimbExit = %+v, want nil", best)
	}
	if v.CanClimbOut(5, 3) {
		t.Error("CanClimbOut true with no valid exits")
	}
}

func TestHasClimbPath(t *testing.T) {
	// Support below the exit sits on the hole's own row, so it doubles as
	// the intermediate cell of the path check. Standable support (ladder,
	// rail) permits travel; solid support validates the exit but blocks it.
	g := newStubGrid()
	g.setStandable(6, 2)
	g.setStandable(6, 3)
	v := NewClimbValidator(g)

	exits := v.ValidClimbExits(5, 3)
	right := exits[1]
	if !right.Valid {
		t.Fatal("fixture: right exit should be valid")
	}
	if !v.HasClimbPath(5, 3, right) {
		t.Error("standable intermediate cell should give a path")
	}

	// Invalid exits never have a path regardless of geometry.
	left := exits[0]
	if v.HasClimbPath(5, 3, left) {
		t.Error("invalid exit reported a path")
	}

	g2 := newStubGrid()
	g2.setStandable(6, 2)
	g2.setSolid(6, 3)
	v2 := NewClimbValidator(g2)
	ex2 := v2.ValidClimbExits(5, 3)[1]
	if !ex2.Valid {
		t.Fatal("fixture: solid support should still validate the exit")
	}
	if v2.HasClimbPath(5, 3, ex2) {
		t.Error("solid intermediate cell should block the climb path")
	}
}

func TestHasClimbPathRejectsNonAdjacentExits(t *testing.T) {
	g := newStubGrid()
	g.setStandable(6, 2)
	g.setSolid(6, 3)
	v := NewClimbValidator(g)

	good := v.ValidClimbExits(5, 3)[1]

	wrongRow := good
	wrongRow.Y = 3 // vertical delta 0
	if v.HasClimbPath(5, 3, wrongRow) {
		t.Error("vertical delta != -1 accepted")
	}

	tooFar := good
	tooFar.X = 8 // horizontal delta 3
	if v.HasClimbPath(5, 3, tooFar) {
		t.Error("non-adjacent horizontal delta accepted")
	}
}

func TestCanMultipleGuardsClimb(t *testing.T) {
	g := newStubGrid()
	g.setStandable(6, 2)
	g.setSolid(6, 3)
	v := NewClimbValidator(g)

	for _, n := range []int{0, 1, 2, 7} {
		if !v.CanMultipleGuardsClimb(5, 3, n) {
			t.Errorf("guardCount=%d: want climbable with one valid exit", n)
		}
	}
	empty := NewClimbValidator(newStubGrid())
	for _, n := range []int{0, 1, 5} {
		if empty.CanMultipleGuardsClimb(5, 3, n) {
			t.Errorf("guardCount=%d: climbable with no valid exits", n)
		}
	}
}

func TestDescribeClimbExits(t *testing.T) {
	g := newStubGrid()
	g.setStandable(4, 2)
	g.setSolid(4, 3)
	v := NewClimbValidator(g)

	out := v.DescribeClimbExits(5, 3)
	for _, want := range []string{"left (4,2)", "right (6,2)", "valid=true", "valid=false", "standable=", "supported="} {
		if !strings.Contains(out, want) {
			t.Errorf("breakdown missing %q in:\n%s", want, out)
		}
	}
}
