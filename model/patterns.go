package model

// AddGlider adds a glider with its top-left corner at (row, col)
func (g *Grid) AddGlider(row, col int) {
	g.addPattern(row, col, [][]bool{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	})
}

// AddBlinker adds a horizontal period-2 blinker starting at (row, col)
func (g *Grid) AddBlinker(row, col int) {
	g.Set(row, col, true)
	g.Set(row, col+1, true)
	g.Set(row, col+2, true)
}

// AddBlock adds a 2x2 still life at (row, col)
func (g *Grid) AddBlock(row, col int) {
	g.Set(row, col, true)
	g.Set(row, col+1, true)
	g.Set(row+1, col, true)
	g.Set(row+1, col+1, true)
}

// AddPulsar adds the 13x13 period-3 pulsar with its top-left corner at (row, col)
func (g *Grid) AddPulsar(row, col int) {
	arms := []int{2, 3, 4, 8, 9, 10}
	for _, edge := range []int{0, 5, 7, 12} {
		for _, a := range arms {
			g.Set(row+edge, col+a, true)
			g.Set(row+a, col+edge, true)
		}
	}
}

func (g *Grid) addPattern(row, col int, pattern [][]bool) {
	for r, cells := range pattern {
		for c, alive := range cells {
			g.Set(row+r, col+c, alive)
		}
	}
}
