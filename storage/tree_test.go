package storage

import (
	"errors"
	"testing"
)

func TestWriteTree(t *testing.T) {
	s := NewMemory()
	g, dsets, err := WriteTree(s, nil, GroupSpec{
		Name:  "raw-Filter_",
		Attrs: map[string]any{"algorithm": "x"},
		Datasets: []DatasetSpec{
			{Name: "a", DType: Float32, Shape: []int{4}},
			{Name: "b", DType: Complex128, Shape: []int{2, 3}, Chunks: []int{1, 3}},
		},
	})
	if err != nil {
		t.Fatalf("WriteTree failed: %v", err)
	}
	if g.Name() != "raw-Filter_000" {
		t.Fatalf("group = %q", g.Name())
	}
	if v, _ := g.Attrs().String("algorithm"); v != "x" {
		t.Fatalf("algorithm = %q", v)
	}
	if len(dsets) != 2 || dsets["b"].RowWidth() != 3 {
		t.Fatalf("datasets = %v", dsets)
	}
	if names := g.Datasets(); len(names) != 2 || names[0] != "a" {
		t.Fatalf("names = %v", names)
	}
}

func TestWriteTreeRejectsBeforeCreating(t *testing.T) {
	s := NewMemory()
	_, _, err := WriteTree(s, nil, GroupSpec{
		Name: "g",
		Datasets: []DatasetSpec{
			{Name: "a", DType: Float32, Shape: []int{1}},
			{Name: "a", DType: Float32, Shape: []int{1}},
		},
	})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v, want ErrExists", err)
	}
	if len(s.Root().Groups()) != 0 {
		t.Fatal("group created despite invalid spec")
	}
}

func TestLinksAndAux(t *testing.T) {
	s := NewMemory()
	mk := func(name string) *Dataset {
		ds, err := s.CreateDataset(nil, DatasetSpec{Name: name, DType: Float32, Shape: []int{1}})
		if err != nil {
			t.Fatalf("CreateDataset %s failed: %v", name, err)
		}
		return ds
	}
	main := mk("main")
	pi, pv, si, sv := mk("pi"), mk("pv"), mk("si"), mk("sv")
	floors := mk("Noise_Floors")

	if IsMain(main) {
		t.Fatal("unlinked dataset reported as main")
	}
	LinkAsMain(main, pi, pv, si, sv)
	Link(main, floors)
	if !IsMain(main) {
		t.Fatal("linked dataset not reported as main")
	}

	got, err := Aux(s, main, SpectroscopicValues)
	if err != nil || got != sv {
		t.Fatalf("Aux = %v, %v", got, err)
	}
	if got, err := Aux(s, main, "Noise_Floors"); err != nil || got != floors {
		t.Fatalf("Aux(Noise_Floors) = %v, %v", got, err)
	}
	if _, err := Aux(s, pi, PositionIndices); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing ref: %v", err)
	}

	main.Attrs().Set("units", "V")
	dst := mk("copy")
	CopyAttributes(main, dst, false)
	if u, _ := dst.Attrs().String("units"); u != "V" || IsMain(dst) {
		t.Fatalf("CopyAttributes without refs: units %q main %v", u, IsMain(dst))
	}
	CopyAttributes(main, dst, true)
	if !IsMain(dst) {
		t.Fatal("CopyAttributes with refs dropped references")
	}
}

func TestBuildIndexValues(t *testing.T) {
	inds, vals, err := BuildIndexValues([]int{2, 3}, false, []string{"X", "Y"}, []string{"m", "m"})
	if err != nil {
		t.Fatalf("BuildIndexValues failed: %v", err)
	}
	if inds.Name != PositionIndices || vals.Name != PositionValues {
		t.Fatalf("names = %q %q", inds.Name, vals.Name)
	}
	if inds.Shape[0] != 6 || inds.Shape[1] != 2 || inds.DType != Uint32 || vals.DType != Float32 {
		t.Fatalf("inds %v %v vals %v", inds.Shape, inds.DType, vals.DType)
	}
	// X varies fastest.
	want := []float64{0, 0, 1, 0, 0, 1, 1, 1, 0, 2, 1, 2}
	for i := range want {
		if inds.Real[i] != want[i] {
			t.Fatalf("inds[%d] = %v, want %v", i, inds.Real[i], want[i])
		}
	}

	sinds, _, err := BuildIndexValues([]int{5}, true, []string{"f"}, []string{"Hz"})
	if err != nil {
		t.Fatalf("spectral BuildIndexValues failed: %v", err)
	}
	if sinds.Name != SpectroscopicIndices || sinds.Shape[0] != 1 || sinds.Shape[1] != 5 {
		t.Fatalf("spectral = %q %v", sinds.Name, sinds.Shape)
	}
	if sinds.Real[4] != 4 {
		t.Fatalf("spectral last = %v", sinds.Real[4])
	}

	if _, _, err := BuildIndexValues([]int{2}, false, nil, nil); !errors.Is(err, ErrShape) {
		t.Fatalf("missing labels: %v", err)
	}

	// The spec can be allocated directly.
	s := NewMemory()
	if _, err := s.CreateDataset(nil, inds); err != nil {
		t.Fatalf("allocating index spec failed: %v", err)
	}
}
