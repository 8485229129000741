// Package ui implements the interactive template picker using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for swapping the template of one print in a session:
//  1. [GroupListView] : Browse the session's prints (slot groups)
//  2. [TemplateListView] : Pick a candidate template of the same print size
//  3. [ConfirmView] : Review the previewed result (slot count, dropped photos)
//  4. [SwapView] : Wait for the swap to be persisted
//  5. [ResultView] : Display the re-bound print
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// All work goes through the [Engine] interface, satisfied by tasks.Engine.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
