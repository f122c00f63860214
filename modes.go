package accessviz

import (
	"sort"
	"strings"
)

// MeasureKind tells whether a mode column carries travel time (minutes)
// or travel distance (meters).
type MeasureKind uint16

const (
	TIME_MEASURE = MeasureKind(iota + 1)
	DISTANCE_MEASURE
)

func (iotaIdx MeasureKind) String() string {
	return [...]string{"time", "distance"}[iotaIdx-1]
}

// Mode is one recognized measurement column of the travel time matrix.
type Mode struct {
	Code  string
	Label string
	Kind  MeasureKind
}

// modes is the closed vocabulary of matrix columns. Adding a mode is a
// data change here, nothing else branches on mode codes.
var modes = map[string]Mode{
	"walk_t":   {Code: "walk_t", Label: "Walking", Kind: TIME_MEASURE},
	"walk_d":   {Code: "walk_d", Label: "Walking", Kind: DISTANCE_MEASURE},
	"bike_s_t": {Code: "bike_s_t", Label: "Biking (slow)", Kind: TIME_MEASURE},
	"bike_f_t": {Code: "bike_f_t", Label: "Biking", Kind: TIME_MEASURE},
	"bike_d":   {Code: "bike_d", Label: "Biking", Kind: DISTANCE_MEASURE},
	"pt_r_tt":  {Code: "pt_r_tt", Label: "Public transport (rush hour, incl. initial wait)", Kind: TIME_MEASURE},
	"pt_r_t":   {Code: "pt_r_t", Label: "Public transport (rush hour)", Kind: TIME_MEASURE},
	"pt_r_d":   {Code: "pt_r_d", Label: "Public transport (rush hour)", Kind: DISTANCE_MEASURE},
	"pt_m_tt":  {Code: "pt_m_tt", Label: "Public transport (midday, incl. initial wait)", Kind: TIME_MEASURE},
	"pt_m_t":   {Code: "pt_m_t", Label: "Public transport", Kind: TIME_MEASURE},
	"pt_m_d":   {Code: "pt_m_d", Label: "Public transport (midday)", Kind: DISTANCE_MEASURE},
	"car_r_t":  {Code: "car_r_t", Label: "Car (rush hour)", Kind: TIME_MEASURE},
	"car_r_d":  {Code: "car_r_d", Label: "Car (rush hour)", Kind: DISTANCE_MEASURE},
	"car_m_t":  {Code: "car_m_t", Label: "Car (midday)", Kind: TIME_MEASURE},
	"car_m_d":  {Code: "car_m_d", Label: "Car (midday)", Kind: DISTANCE_MEASURE},
	"car_sl_t": {Code: "car_sl_t", Label: "Car", Kind: TIME_MEASURE},
}

// ModeByCode resolves a mode code against the vocabulary.
func ModeByCode(code string) (Mode, error) {
	mode, ok := modes[code]
	if !ok {
		return Mode{}, &UnknownModeError{Code: code}
	}
	return mode, nil
}

// CheckMode verifies that a mode code is recognized before any data work
// starts. Unrecognized codes are a usage error, never a silent no-op.
func CheckMode(code string) error {
	_, err := ModeByCode(code)
	return err
}

func supportedModesList() string {
	codes := make([]string, 0, len(modes))
	for code := range modes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return strings.Join(codes, ",")
}
