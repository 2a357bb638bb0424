package worklist

import (
	wl "recworklist/internal/worklist"
)

// rowView holds what each row currently shows. It is written only by the
// state machine through Render.
type rowView struct {
	shown map[string]wl.Presentation
}

var _ wl.Renderer = (*rowView)(nil)

func newRowView() *rowView {
	return &rowView{shown: make(map[string]wl.Presentation)}
}

// Render implements worklist.Renderer.
func (v *rowView) Render(rowID string, p wl.Presentation) {
	v.shown[rowID] = p
}

func (v *rowView) get(rowID string) wl.Presentation {
	return v.shown[rowID]
}

func (v *rowView) reset() {
	clear(v.shown)
}
