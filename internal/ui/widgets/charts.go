package widgets

import (
	"fmt"
	"math"
	"strings"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// Spark8 draws vals, already normalized to 0..1, as a width wide sparkline.
func Spark8(vals []float64, width int) string {
	if len(vals) == 0 || width <= 0 {
		return ""
	}
	// sample evenly over last vals
	step := float64(len(vals)) / float64(width)
	var b strings.Builder
	for i := 0; i < width; i++ {
		idx := int(math.Min(float64(len(vals)-1), math.Floor(float64(i)*step)))
		v := clamp01(vals[idx])
		level := int(math.Round(v * float64(len(blocks)-1)))
		if level < 0 {
			level = 0
		}
		if level > len(blocks)-1 {
			level = len(blocks) - 1
		}
		b.WriteRune(blocks[level])
	}
	return b.String()
}

// Normalize maps vals onto 0..1 using [lo, hi]. When lo == hi the output sits mid scale.
func Normalize(vals []float64, lo, hi float64) []float64 {
	out := make([]float64, len(vals))
	span := hi - lo
	for i, v := range vals {
		if span == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = clamp01((v - lo) / span)
	}
	return out
}

// Bounds returns the min and max of vals and of any extra reference values,
// such as threshold lines that must stay visible on the chart. NaN and
// infinite values are skipped.
func Bounds(vals []float64, extra ...float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range append(append([]float64{}, vals...), extra...) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

// Spark draws raw values scaled to their own range.
func Spark(vals []float64, width int) string {
	lo, hi := Bounds(vals)
	return Spark8(Normalize(vals, lo, hi), width)
}

func Bar(v float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	v = clamp01(v)

	fill := int(math.Round(v * float64(width)))
	if v > 0 && fill == 0 {
		fill = 1
	}
	if fill > width {
		fill = width
	}
	return strings.Repeat("█", fill) + strings.Repeat(" ", width-fill)
}

// BarChart renders one labelled horizontal bar per value, scaled to max.
// A non-positive max scales to the largest value.
func BarChart(labels []string, values []float64, max float64, width int, format string) string {
	if max <= 0 {
		for _, v := range values {
			max = math.Max(max, v)
		}
	}
	labelW := 0
	for _, l := range labels {
		labelW = int(math.Max(float64(labelW), float64(len([]rune(l)))))
	}

	var b strings.Builder
	for i, l := range labels {
		if i >= len(values) {
			break
		}
		ratio := 0.0
		if max > 0 {
			ratio = values[i] / max
		}
		fmt.Fprintf(&b, "%-*s %s "+format+"\n", labelW, l, Bar(ratio, width), values[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
