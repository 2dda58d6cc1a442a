// Package spectrum is a small audio-reactive engine: a bar analyser drawn
// over a preset-colored background.
//
// Presets are INI files in the style of .milk presets. The engine reads
// the keys it understands and ignores the rest:
//
//	[preset00]
//	fDecay=0.95
//	ob_r=0.05
//	ob_g=0.02
//	ob_b=0.10
//	wave_r=0.9
//	wave_g=0.4
//	wave_b=0.1
//	bars=32
//
// The engine implements preset rotation through a playlist of the preset
// directory, smooth transitions blended over the soft-cut duration, and
// beat-triggered hard cuts. It draws through [render.RectFiller], so it
// runs on every output backend.
package spectrum
