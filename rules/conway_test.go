package rules

import "testing"

func TestNext(t *testing.T) {
	for n := 0; n <= 8; n++ {
		wantAlive := n == 2 || n == 3
		if got := Next(true, n); got != wantAlive {
			t.Fatalf("live cell with %d neighbors: got %v, want %v", n, got, wantAlive)
		}
		wantBorn := n == 3
		if got := Next(false, n); got != wantBorn {
			t.Fatalf("dead cell with %d neighbors: got %v, want %v", n, got, wantBorn)
		}
	}
}
