package xslice

import "testing"

func TestContains(t *testing.T) {
	if !Contains([]int{1, 2, 3}, 2) {
		t.Errorf("expected Contains to find 2")
	}
	if Contains([]int{1, 2, 3}, 9) {
		t.Errorf("expected Contains to not find 9")
	}
}

func TestSortByKey(t *testing.T) {
	s := []struct{ v float64 }{{3}, {1}, {2}}
	SortByKey(s, func(e struct{ v float64 }) float64 { return e.v })
	for i := 1; i < len(s); i++ {
		if s[i].v < s[i-1].v {
			t.Fatalf("not sorted: %+v", s)
		}
	}
}

func TestIndexFunc(t *testing.T) {
	idx := IndexFunc([]int{10, 20, 30}, func(v int) bool { return v == 20 })
	if idx != 1 {
		t.Errorf("IndexFunc = %d, want 1", idx)
	}
	if IndexFunc([]int{10, 20}, func(v int) bool { return v == 99 }) != -1 {
		t.Errorf("expected -1 for missing element")
	}
}
