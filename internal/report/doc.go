// Package report renders tracks, covariance matrices and uncertainty sweeps
// for the terminal.
//
// Tables are styled with lipgloss; sweeps are drawn with asciigraph. Set
// Plain to drop colours when writing to a file or pipe.
package report
