package diag

import (
	"reflect"
	"testing"
)

func TestNewAndLabels(t *testing.T) {
	d := New(7, "bad value `%s`", "x")
	if d.Message != "bad value `x`" || d.Location != 7 {
		t.Errorf("New = %+v", d)
	}

	labelled := d.WithLabel(3, "defined %s", "here")
	if len(labelled.Labels) != 1 || labelled.Labels[0].Message != "defined here" || labelled.Labels[0].Location != 3 {
		t.Errorf("WithLabel = %+v", labelled.Labels)
	}
	// WithLabel copies; the original stays label-free.
	if len(d.Labels) != 0 {
		t.Errorf("original gained labels: %+v", d.Labels)
	}
}

func TestMap(t *testing.T) {
	d := New(10, "oops").WithLabel(20, "related")
	mapped := Map(d, func(l int) string {
		if l == 10 {
			return "ten"
		}
		return "twenty"
	})
	if mapped.Location != "ten" || mapped.Message != "oops" {
		t.Errorf("Map primary = %+v", mapped)
	}
	if len(mapped.Labels) != 1 || mapped.Labels[0].Location != "twenty" {
		t.Errorf("Map labels = %+v", mapped.Labels)
	}
}

func TestSinkOrder(t *testing.T) {
	var s Sink[int]
	s.Emit(1, "first")
	s.Report(New(2, "second"))
	s.Emit(3, "third %d", 3)

	if s.Len() != 3 {
		t.Fatalf("Len = %d; want 3", s.Len())
	}
	var got []string
	for _, d := range s.List() {
		got = append(got, d.Message)
	}
	want := []string{"first", "second", "third 3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List order = %v; want %v", got, want)
	}
}
