package accessviz

import (
	"strings"
	"testing"
)

func TestModeVocabulary(t *testing.T) {
	cases := map[string]struct {
		label string
		kind  MeasureKind
	}{
		"pt_m_t":   {"Public transport", TIME_MEASURE},
		"car_sl_t": {"Car", TIME_MEASURE},
		"walk_t":   {"Walking", TIME_MEASURE},
		"bike_f_t": {"Biking", TIME_MEASURE},
		"pt_r_d":   {"Public transport (rush hour)", DISTANCE_MEASURE},
		"car_r_d":  {"Car (rush hour)", DISTANCE_MEASURE},
	}
	for code, want := range cases {
		mode, err := ModeByCode(code)
		if err != nil {
			t.Fatalf("Mode '%s' must be recognized: %v", code, err)
		}
		if mode.Label != want.label {
			t.Errorf("Label for '%s' must be '%s', but got '%s'", code, want.label, mode.Label)
		}
		if mode.Kind != want.kind {
			t.Errorf("Kind for '%s' must be %s, but got %s", code, want.kind, mode.Kind)
		}
	}
}

func TestUnknownMode(t *testing.T) {
	err := CheckMode("teleport_t")
	if err == nil {
		t.Fatalf("An unrecognized mode code must be a usage error, not a silent no-op")
	}
	modeErr, ok := err.(*UnknownModeError)
	if !ok {
		t.Fatalf("Unknown mode must raise UnknownModeError, but got %T", err)
	}
	if !strings.Contains(modeErr.Error(), "car_sl_t") {
		t.Errorf("The error must list the supported modes, but got: %s", modeErr)
	}
}

func TestMeasureKindString(t *testing.T) {
	if TIME_MEASURE.String() != "time" || DISTANCE_MEASURE.String() != "distance" {
		t.Errorf("Kind names must be 'time' and 'distance', but got '%s' and '%s'",
			TIME_MEASURE, DISTANCE_MEASURE)
	}
}
