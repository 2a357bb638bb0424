package worklist

import (
	"strconv"
	"strings"
)

// Zone ID format:
// - Row cells: row:{id}, check:{id}, series:{id}, link:{id}
// - Menu tabs: tab:{index}
// - Buttons: button:{name}
const (
	zoneRowPrefix    = "row:"
	zoneCheckPrefix  = "check:"
	zoneSeriesPrefix = "series:"
	zoneLinkPrefix   = "link:"
	zoneTabPrefix    = "tab:"
	zoneButtonPrefix = "button:"
	zoneAddInput     = "add-input"
)

func makeCellZoneID(t Target, rowID string) string {
	switch t {
	case TargetCheckbox:
		return zoneCheckPrefix + rowID
	case TargetSeries:
		return zoneSeriesPrefix + rowID
	case TargetLink:
		return zoneLinkPrefix + rowID
	default:
		return zoneRowPrefix + rowID
	}
}

// parseCellZoneID splits a row cell zone ID into its target and row ID.
func parseCellZoneID(zoneID string) (Target, string, bool) {
	for _, p := range []struct {
		prefix string
		target Target
	}{
		{zoneSeriesPrefix, TargetSeries},
		{zoneLinkPrefix, TargetLink},
		{zoneCheckPrefix, TargetCheckbox},
		{zoneRowPrefix, TargetRow},
	} {
		if id, ok := strings.CutPrefix(zoneID, p.prefix); ok && id != "" {
			return p.target, id, true
		}
	}
	return 0, "", false
}

func makeTabZoneID(index int) string {
	return zoneTabPrefix + strconv.Itoa(index)
}

func parseTabZoneID(zoneID string) (int, bool) {
	s, ok := strings.CutPrefix(zoneID, zoneTabPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

func makeButtonZoneID(name string) string {
	return zoneButtonPrefix + name
}
