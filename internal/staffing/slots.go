package staffing

// SlotCategory selects one of the fixed rotating slot lists.
type SlotCategory string

const (
	// CategoryDemo cycles the four core demo times.
	CategoryDemo SlotCategory = "demo"
	// CategorySetup cycles twelve 15-minute setup slots.
	CategorySetup SlotCategory = "setup"
	// CategoryTeardown cycles eight 15-minute teardown slots.
	CategoryTeardown SlotCategory = "teardown"
)

// Midday is the fixed time used for audits and catch-all visits.
var Midday = ClockTime{Hour: 13}

// fixedEventTimes are the wave 1 per-subtype fixed start times.
var fixedEventTimes = map[EventType]ClockTime{
	EventTypeBuild: {Hour: 9},
	EventTypePrep:  {Hour: 7, Minute: 30},
}

// FixedTime returns the fixed start time for event types that have one.
func FixedTime(t EventType) (ClockTime, bool) {
	ct, ok := fixedEventTimes[t]
	return ct, ok
}

var slotLists = map[SlotCategory][]ClockTime{
	CategoryDemo: {
		{Hour: 10},
		{Hour: 11, Minute: 30},
		{Hour: 14},
		{Hour: 15, Minute: 30},
	},
	CategorySetup:    quarterHourSlots(ClockTime{Hour: 8}, 12),
	CategoryTeardown: quarterHourSlots(ClockTime{Hour: 16}, 8),
}

func quarterHourSlots(start ClockTime, count int) []ClockTime {
	slots := make([]ClockTime, count)
	minutes := start.Hour*60 + start.Minute
	for i := range slots {
		m := minutes + i*15
		slots[i] = ClockTime{Hour: m / 60, Minute: m % 60}
	}
	return slots
}

// SlotAt is the deterministic allocator: a pure function of the category and
// the number of placements already made for the (date, category) pair. The
// caller owns the counter; it increments once per successful placement.
func SlotAt(category SlotCategory, placements int) ClockTime {
	list := slotLists[category]
	if len(list) == 0 {
		return Midday
	}
	if placements < 0 {
		placements = 0
	}
	return list[placements%len(list)]
}

// FirstSlot returns the head of the category's slot list. The rotation
// designated lead, and the prioritized senior in wave 2, receive this entry
// when eligible regardless of the rotation counter.
func FirstSlot(category SlotCategory) ClockTime {
	return SlotAt(category, 0)
}

// SlotCategoryFor maps an event type to its allocator category.
func SlotCategoryFor(t EventType) (SlotCategory, bool) {
	switch t {
	case EventTypeDemo:
		return CategoryDemo, true
	case EventTypeSetup:
		return CategorySetup, true
	case EventTypeTeardown:
		return CategoryTeardown, true
	default:
		return "", false
	}
}
