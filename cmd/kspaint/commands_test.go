package main

import (
	"image"
	"testing"
)

func TestParsePoints(t *testing.T) {
	got, err := parsePoints("1,2; 30 , 40 ;;-5,6")
	if err != nil {
		t.Fatal(err)
	}
	want := []image.Point{{1, 2}, {30, 40}, {-5, 6}}
	if len(got) != len(want) {
		t.Fatalf("parsePoints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parsePoints()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"", "1", "a,2", "1,b"} {
		if _, err := parsePoints(bad); err == nil {
			t.Errorf("parsePoints(%q) error = nil", bad)
		}
	}
}
