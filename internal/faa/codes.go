package faa

// UnknownLabel is the sentinel reported for missing or unrecognized values.
const UnknownLabel = "Unknown"

// aircraftTypes maps the registry TYPE AIRCRAFT codes to labels.
var aircraftTypes = map[string]string{
	"1": "Glider",
	"2": "Balloon",
	"3": "Blimp/Dirigible",
	"4": "Fixed Wing Single-Engine",
	"5": "Fixed Wing Multi-Engine",
	"6": "Rotorcraft",
	"7": "Weight-Shift-Control",
	"8": "Powered Parachute",
	"9": "Gyroplane",
	"H": "Hybrid Lift",
	"O": "Other",
}

// engineTypes maps the registry TYPE ENGINE codes to labels.
var engineTypes = map[string]string{
	"0":  "None",
	"1":  "Reciprocating",
	"2":  "Turbo-Prop",
	"3":  "Turbo-Shaft",
	"4":  "Turbo-Jet",
	"5":  "Turbo-Fan",
	"6":  "Ramjet",
	"7":  "2-Cycle",
	"8":  "4-Cycle",
	"9":  "Unknown",
	"10": "Electric",
	"11": "Rotary",
}

// AircraftTypeLabel decodes a TYPE AIRCRAFT code, defaulting to Unknown.
func AircraftTypeLabel(code string) string {
	if label, ok := aircraftTypes[code]; ok {
		return label
	}
	return UnknownLabel
}

// EngineTypeLabel decodes a TYPE ENGINE code, defaulting to Unknown.
func EngineTypeLabel(code string) string {
	if label, ok := engineTypes[code]; ok {
		return label
	}
	return UnknownLabel
}
