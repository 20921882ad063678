// Package viz renders propagation results in the terminal.
//
//   - [EnergyPlot] and [ProfilePlot]: asciigraph line charts
//   - [Heatmap]: shaded character map of a magnitude grid over distance
//   - [Canvas]: Braille pixel canvas used by the interactive viewer
//   - [Summary]: lipgloss panel of run parameters and metrics
//
// Colors come from a [Theme]; the viewer cycles through [Themes].
package viz
