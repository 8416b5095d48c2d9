package rules

/*
Next applies Conway's Game of Life rules to a single cell and returns its next state.

The rules are checked in this order:
  - a live cell with fewer than two or more than three neighbors dies
  - a cell with exactly three neighbors is alive (survival or birth)
  - otherwise the cell keeps its state
*/
func Next(alive bool, neighbors int) bool {
	if alive && (neighbors < 2 || neighbors > 3) {
		return false
	}
	if neighbors == 3 {
		return true
	}
	return alive
}
