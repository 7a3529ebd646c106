package ui

import "slices"

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width samples of data as block characters,
// scaled to the largest sample. Short input is left-padded with the
// lowest block.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	out := make([]rune, width)
	pad := width - len(data)
	for i := range pad {
		out[i] = sparkBlocks[0]
	}
	if len(data) == 0 {
		return string(out)
	}

	top := slices.Max(data)
	last := len(sparkBlocks) - 1
	for i, v := range data {
		idx := 0
		if top > 0 && v > 0 {
			idx = min(int(v/top*float64(last)), last)
		}
		out[pad+i] = sparkBlocks[idx]
	}
	return string(out)
}
