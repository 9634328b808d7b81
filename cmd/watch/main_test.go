package main

import "testing"

func TestSummarize(t *testing.T) {
	hist := map[string]int{"0": 2, "3": 6, "1": 2, "9": 0}
	got := summarize(hist, []string{"OCEAN", "OCEAN_REEF", "DEEP_OCEAN", "DEEP_OCEAN_TRENCH"}, 2)
	if got != "DEEP_OCEAN_TRENCH=60% OCEAN=20%" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := summarize(map[string]int{"40": 1}, nil, 3); got != "40=100%" {
		t.Fatalf("unexpected summary %q", got)
	}
}
