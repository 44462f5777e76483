//go:build js && wasm

package leaflet

import (
	"syscall/js"

	"github.com/woozymasta/geoview/internal/shell"
)

var (
	_ shell.Readout    = (*DOM)(nil)
	_ shell.Onboarding = (*DOM)(nil)
)

// DOM writes readouts and hides the onboarding hint in the page document.
type DOM struct {
	doc js.Value
}

// NewDOM returns a DOM bound to the global document.
func NewDOM() *DOM {
	return &DOM{doc: js.Global().Get("document")}
}

// SetText replaces the text content of the element with the given id.
func (d *DOM) SetText(element, text string) {
	if el := d.element(element); el.Truthy() {
		el.Set("textContent", text)
	}
}

// Hide stops displaying the element with the given id.
func (d *DOM) Hide(element string) {
	if el := d.element(element); el.Truthy() {
		el.Get("style").Set("display", "none")
	}
}

func (d *DOM) element(id string) js.Value {
	return d.doc.Call("getElementById", id)
}
