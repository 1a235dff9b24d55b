// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist analysis:
//  1. [LoadingView] : Fetch and bucket the playlist with live progress
//  2. [HistogramView] : Browse the release-year histogram and pick years
//  3. [TrackListView] : Inspect the tracks inside the current selection
//
// Picking works like clicking histogram bars: selecting one year narrows to
// that year, a second distinct year completes an inclusive range, the same
// year again clears, and a pick after a completed range starts over. A
// non-empty selection can be exported as a new playlist when the engine is
// backed by a login session.
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the PlaylistEngine, providing
// non-blocking status reporting during analysis.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, c, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
