package testutil

import "recworklist/internal/worklist"

// WithStandardRows adds five rows: A, B and C in series S1 (C already
// selected), D without a series, E alone in series S2.
func (b *PageBuilder) WithStandardRows() *PageBuilder {
	return b.
		WithRow("A", Series("S1", "Night Radio"), Title("Night Radio #1"), State("Recorded"), Updated("2026-10-01 01:00")).
		WithRow("B", Series("S1", "Night Radio"), Title("Night Radio #2"), Status(""), State("Recorded")).
		WithRow("C", Series("S1", "Night Radio"), Title("Night Radio #3"), Status(worklist.StatusCheckedHideDetail),
			Detail("Guest: 声優 special")).
		WithRow("D", Title("Standalone documentary"), State("Failed")).
		WithRow("E", Series("S2", "Morning Jazz"), Title("Morning Jazz #12"))
}
