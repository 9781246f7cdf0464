package staffing

import "sort"

// SortEvents orders unstaffed events by urgency: due date ascending, then
// event-type priority ascending. Ties preserve input order. The input slice
// is not modified.
func SortEvents(events []Event) []Event {
	ordered := make([]Event, len(events))
	copy(ordered, events)

	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := DateOf(ordered[i].Due), DateOf(ordered[j].Due)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return ordered[i].Type.Priority() < ordered[j].Type.Priority()
	})

	return ordered
}
