// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for preference enrichment:
//  1. [UserListView] : Browse and select a stored user profile
//  2. [TopTrackListView] : Preview the listener's current top tracks
//  3. [ConfirmView] : Confirm the enrichment operation
//  4. [EnrichView] : Monitor real-time progress updates
//  5. [ResultView] : Display attach counts and failed lookups
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the taste engine, providing non-blocking status reporting during enrichment runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
