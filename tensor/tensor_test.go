package tensor

import (
	"testing"
)

func TestNewShapeAndAccess(t *testing.T) {
	t.Parallel()
	d := New[float64](2, 3, 4)

	if d.Rank() != 3 {
		t.Fatalf("Rank mismatch: expected 3, got %d", d.Rank())
	}
	if d.Len() != 24 {
		t.Fatalf("Len mismatch: expected 24, got %d", d.Len())
	}
	for i, want := range []int{2, 3, 4} {
		if d.Dim(i) != want {
			t.Errorf("Dim(%d) mismatch: expected %d, got %d", i, want, d.Dim(i))
		}
	}

	d.Set(7.5, 1, 2, 3)
	if got := d.At(1, 2, 3); got != 7.5 {
		t.Errorf("At(1,2,3) mismatch: expected 7.5, got %f", got)
	}
	// Row-major storage: index (1,2,3) is offset 1*12 + 2*4 + 3.
	if got := d.Data()[23]; got != 7.5 {
		t.Errorf("Linear offset mismatch: expected 7.5 at offset 23, got %f", got)
	}
}

func TestFromSlice(t *testing.T) {
	t.Parallel()
	t.Run("matching_length", func(t *testing.T) {
		d, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got := d.At(1, 2); got != 6 {
			t.Errorf("At(1,2) mismatch: expected 6, got %f", got)
		}
	})
	t.Run("length_mismatch", func(t *testing.T) {
		if _, err := FromSlice([]float64{1, 2, 3}, 2, 3); err == nil {
			t.Error("Expected error for mismatched length, got nil")
		}
	})
}

func TestCopyIsIndependent(t *testing.T) {
	t.Parallel()
	d := New[float64](2, 2)
	d.Set(1, 0, 0)

	c := d.Copy()
	c.Set(9, 0, 0)

	if got := d.At(0, 0); got != 1 {
		t.Errorf("Write to copy leaked into original: expected 1, got %f", got)
	}
	if got := c.At(0, 0); got != 9 {
		t.Errorf("Copy value mismatch: expected 9, got %f", got)
	}
}

func TestScaleAndAddAssign(t *testing.T) {
	t.Parallel()
	a := New[float64](2, 2)
	b := New[float64](2, 2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			a.Set(float64(i+j), i, j)
			b.Set(1, i, j)
		}
	}

	a.Scale(2)
	a.AddAssign(b)

	want := [][]float64{{1, 3}, {3, 5}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := a.At(i, j); got != want[i][j] {
				t.Errorf("Value mismatch at (%d,%d): expected %f, got %f", i, j, want[i][j], got)
			}
		}
	}
}

func TestAddAssignShapeMismatchPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on shape mismatch, got none")
		}
	}()
	New[float64](2, 2).AddAssign(New[float64](2, 3))
}

func TestBlock(t *testing.T) {
	t.Parallel()
	d := New[float64](2, 3, 4)
	for i := range d.Data() {
		d.Data()[i] = float64(i)
	}

	t.Run("one_leading_index", func(t *testing.T) {
		block := d.Block(1)
		if len(block) != 12 {
			t.Fatalf("Block length mismatch: expected 12, got %d", len(block))
		}
		if block[0] != 12 {
			t.Errorf("Block start mismatch: expected 12, got %f", block[0])
		}
	})
	t.Run("two_leading_indices", func(t *testing.T) {
		block := d.Block(1, 2)
		if len(block) != 4 {
			t.Fatalf("Block length mismatch: expected 4, got %d", len(block))
		}
		if block[3] != 23 {
			t.Errorf("Block end mismatch: expected 23, got %f", block[3])
		}
	})
	t.Run("writes_reach_tensor", func(t *testing.T) {
		d.Block(0, 0)[1] = -1
		if got := d.At(0, 0, 1); got != -1 {
			t.Errorf("Write through block did not land: got %f", got)
		}
	})
}

func TestResizeLastAxis(t *testing.T) {
	t.Parallel()
	d := New[float64](2, 3)
	for i := range d.Data() {
		d.Data()[i] = float64(i + 1)
	}

	t.Run("grow_zero_fills", func(t *testing.T) {
		g := d.ResizeLastAxis(5)
		if g.Dim(1) != 5 {
			t.Fatalf("Dim mismatch: expected 5, got %d", g.Dim(1))
		}
		if got := g.At(1, 2); got != 6 {
			t.Errorf("Retained value mismatch: expected 6, got %f", got)
		}
		if got := g.At(1, 4); got != 0 {
			t.Errorf("New entries must be zero, got %f", got)
		}
	})
	t.Run("shrink_truncates", func(t *testing.T) {
		s := d.ResizeLastAxis(1)
		if s.Dim(1) != 1 {
			t.Fatalf("Dim mismatch: expected 1, got %d", s.Dim(1))
		}
		if got := s.At(1, 0); got != 4 {
			t.Errorf("Retained value mismatch: expected 4, got %f", got)
		}
	})
}

func TestVecView(t *testing.T) {
	t.Parallel()
	d := New[float64](2, 3, 4)
	for i := range d.Data() {
		d.Data()[i] = float64(i)
	}

	v := d.Vec(1, []int{1, 0, 2})
	if v.Len() != 3 {
		t.Fatalf("Vec length mismatch: expected 3, got %d", v.Len())
	}
	for j := 0; j < 3; j++ {
		if got := v.At(j); got != d.At(1, j, 2) {
			t.Errorf("Vec element %d mismatch: expected %f, got %f", j, d.At(1, j, 2), got)
		}
	}

	v.Set(1, -5)
	if got := d.At(1, 1, 2); got != -5 {
		t.Errorf("Vec write did not reach tensor: got %f", got)
	}

	v.Assign([]float64{10, 11, 12})
	if got := d.At(1, 2, 2); got != 12 {
		t.Errorf("Assign did not reach tensor: got %f", got)
	}
}

func TestMatView(t *testing.T) {
	t.Parallel()
	d := New[complex128](2, 3, 4)
	for i := range d.Data() {
		d.Data()[i] = complex(float64(i), 0)
	}

	m := d.Mat(0, 2, []int{0, 1, 0})
	if m.Rows() != 2 || m.Cols() != 4 {
		t.Fatalf("Mat shape mismatch: expected 2x4, got %dx%d", m.Rows(), m.Cols())
	}
	for i := 0; i < 2; i++ {
		for k := 0; k < 4; k++ {
			if got := m.At(i, k); got != d.At(i, 1, k) {
				t.Errorf("Mat element (%d,%d) mismatch: expected %v, got %v", i, k, d.At(i, 1, k), got)
			}
		}
	}

	m.Set(1, 3, 99)
	if got := d.At(1, 1, 3); got != 99 {
		t.Errorf("Mat write did not reach tensor: got %v", got)
	}
}

func TestMultiIndexOrder(t *testing.T) {
	t.Parallel()
	it := NewMultiIndex(2, 3)
	want := [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	var got [][]int
	for it.Next() {
		got = append(got, append([]int(nil), it.Coords()...))
	}
	if len(got) != len(want) {
		t.Fatalf("Iteration count mismatch: expected %d, got %d", len(want), len(got))
	}
	for i := range want {
		for k := range want[i] {
			if got[i][k] != want[i][k] {
				t.Errorf("Coordinate %d mismatch: expected %v, got %v", i, want[i], got[i])
			}
		}
	}

	if it.Next() {
		t.Error("Exhausted iterator must stay exhausted")
	}

	it.Reset()
	n := 0
	for it.Next() {
		n++
	}
	if n != 6 {
		t.Errorf("Reset iteration count mismatch: expected 6, got %d", n)
	}
}

func TestMultiIndexEmptyDimension(t *testing.T) {
	t.Parallel()
	it := NewMultiIndex(2, 0)
	if it.Next() {
		t.Error("Iterator over an empty dimension must not yield")
	}
}
