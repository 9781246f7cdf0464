package staffing

import "testing"

func TestExtractPairKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantKey string
		wantOK  bool
	}{
		{"demo name", "606001-DEMO-Autumn", "606001", true},
		{"audit name", "606001-AUDIT-Autumn", "606001", true},
		{"lower case tag", "123456-demo-x", "123456", true},
		{"leading whitespace", "  606001-DEMO-X", "606001", true},
		{"short token", "6001-DEMO-X", "", false},
		{"no tag", "606001-SETUP-X", "", false},
		{"token not leading", "x606001-DEMO", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ExtractPairKey(tt.input)
			if ok != tt.wantOK || key != tt.wantKey {
				t.Fatalf("ExtractPairKey(%q) = %q, %v; want %q, %v", tt.input, key, ok, tt.wantKey, tt.wantOK)
			}
		})
	}
}

func TestFindPairLocatesComplement(t *testing.T) {
	demo := Event{Ref: "d1", Name: "606001-DEMO-X", Type: EventTypeDemo}
	audit := Event{Ref: "a1", Name: "606001-AUDIT-X", Type: EventTypeAudit}
	other := Event{Ref: "d2", Name: "606002-DEMO-Y", Type: EventTypeDemo}
	catalog := []Event{demo, audit, other}

	pair, ok := FindPair(audit, catalog)
	if !ok || pair.Ref != "d1" {
		t.Fatalf("audit pair = %v, %v; want d1", pair.Ref, ok)
	}

	pair, ok = FindPair(demo, catalog)
	if !ok || pair.Ref != "a1" {
		t.Fatalf("demo pair = %v, %v; want a1", pair.Ref, ok)
	}
}

func TestFindPairNoCounterpart(t *testing.T) {
	audit := Event{Ref: "a1", Name: "606001-AUDIT-X", Type: EventTypeAudit}
	catalog := []Event{audit, {Ref: "d2", Name: "606002-DEMO-Y"}}

	if _, ok := FindPair(audit, catalog); ok {
		t.Fatal("expected no pair for a lone audit")
	}
}

func TestFindPairIgnoresSameTagEvents(t *testing.T) {
	demoA := Event{Ref: "d1", Name: "606001-DEMO-X"}
	demoB := Event{Ref: "d2", Name: "606001-DEMO-Y"}

	if _, ok := FindPair(demoA, []Event{demoA, demoB}); ok {
		t.Fatal("two demos must not pair with each other")
	}
}
