// internal/app/helper.go
package app

// clamp clamps v into [min, max].
func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// fitColumns gives every column its minimum width and hands what is left of
// total to the flex column, capped at maxFlex.
func fitColumns(total int, mins []int, flex, maxFlex int) []int {
	out := make([]int, len(mins))
	used := 0
	for i, w := range mins {
		out[i] = w
		used += w + 2 // cell padding
	}
	if flex >= 0 && flex < len(out) {
		out[flex] = clamp(out[flex]+total-used, mins[flex], maxFlex)
	}
	return out
}

// machine status table: MACHINE STATUS EFF TEMP VIB RATE UPDATED
func machineColWidths(total int) []int {
	return fitColumns(total, []int{20, 9, 7, 8, 10, 10, 9}, 0, 40)
}

// production cycles table: CYCLE START END TIME QUALITY RESULT
func cycleColWidths(total int) []int {
	return fitColumns(total, []int{7, 9, 9, 8, 8, 8}, 5, 20)
}

// downtime table: START MACHINE REASON DURATION SEVERITY
func downtimeColWidths(total int) []int {
	return fitColumns(total, []int{16, 20, 20, 9, 9}, 2, 30)
}

// alert history table: ACK TIME SEVERITY MACHINE TITLE
func alertColWidths(total int) []int {
	return fitColumns(total, []int{3, 8, 8, 20, 24}, 4, 60)
}
