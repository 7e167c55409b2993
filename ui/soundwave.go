package ui

import "strings"

// Amplitude table for the sound wave animation. The bars are mirrored
// around the center column and drift one frame per tick, which reads as
// a slow breathing pulse rather than a spectrum analyzer.
var waveData = []float64{
	0.0, 0.005, 0.015, 0.03, 0.05, 0.075, 0.1, 0.13, 0.16, 0.2, 0.24, 0.28,
	0.32, 0.37, 0.42, 0.47, 0.52, 0.58, 0.63, 0.68, 0.73, 0.78, 0.83, 0.87,
	0.91, 0.95, 0.98, 1.0, 0.97, 0.93, 0.88, 0.82, 0.76, 0.7, 0.64, 0.58,
	0.52, 0.46, 0.4, 0.35, 0.3, 0.26, 0.22, 0.18, 0.15, 0.12, 0.09, 0.07,
	0.05, 0.04, 0.03, 0.02, 0.015, 0.01, 0.008, 0.005, 0.003, 0.0,
}

var waveGlyphs = []rune("▁▂▃▄▅▆▇█")

// renderWave draws one animation frame of the mirrored sound wave at
// the given width. When idle it draws a static parabola instead.
func renderWave(width, frame int, playing bool) string {
	if width < 3 {
		return ""
	}
	// Odd bar count so there is a center column.
	if width%2 == 0 {
		width--
	}
	center := width / 2

	var b strings.Builder
	for i := 0; i < width; i++ {
		dist := i - center
		if dist < 0 {
			dist = -dist
		}

		var level float64
		if playing {
			level = waveData[(frame+dist*3)%len(waveData)]
		} else {
			level = 1.0 - float64(dist)/float64(center+1)
		}

		idx := int(level * float64(len(waveGlyphs)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(waveGlyphs) {
			idx = len(waveGlyphs) - 1
		}
		b.WriteRune(waveGlyphs[idx])
	}
	return waveStyle.Render(b.String())
}
