// Package ui is the folio terminal front end built on Bubble Tea.
//
// Core pieces:
//   - View: a screen (gallery, login) with its own model, update, view (Elm-style)
//   - Controller: the single active dialog, its focus ring and click handlers
//   - ClickRouter: bubblezone hit testing with innermost-first propagation
//   - FocusManager: rotates focus across an ordered set of element IDs
//   - KeyHandler: SPC-leader keybindings filtered by AppMode
//
// AppModel wires these to the works API and the session store.
package ui
