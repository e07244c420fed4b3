// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a library browser: it loads the signed-in user's library,
// renders it as a navigable list, and resolves a stream URL for the selected
// song, showing the result as a "now playing" line. Workflow feedback
// messages surface in the footer and clear on the next repaint after the
// notifier dismisses them.
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, enter, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
