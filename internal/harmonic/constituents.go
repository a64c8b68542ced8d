package harmonic

// Constituent is one sinusoidal astronomical tidal component with a fixed
// angular speed. Amplitude is a global-average base value in meters that
// gets scaled per latitude band at synthesis time.
//
// PhaseRate and PhaseOffset describe how the constituent's phase lag varies
// with longitude: each 15 degrees of longitude corresponds to one hour of
// Earth rotation, applied at roughly the constituent's cycle rate
// (30 deg/unit for semidiurnal components, 15 for diurnal).
type Constituent struct {
	Name        string
	Amplitude   float64 // meters
	Speed       float64 // degrees per hour
	PhaseRate   float64 // degrees per 15-degree longitude step
	PhaseOffset float64 // degrees
}

// Constituents is the fixed eight-component table used for synthesis.
// Initialized once at startup and never mutated.
//
// The amplitudes and the latitude-band scaling applied to them are a
// documented approximation standing in for station-specific harmonic
// constants; they are kept numerically exact for compatibility but should
// not be treated as physically validated.
var Constituents = [8]Constituent{
	{Name: "M2", Amplitude: 0.5, Speed: 28.984104, PhaseRate: 30, PhaseOffset: 0},    // principal lunar semidiurnal
	{Name: "S2", Amplitude: 0.2, Speed: 30.0, PhaseRate: 30, PhaseOffset: 30},        // principal solar semidiurnal
	{Name: "N2", Amplitude: 0.1, Speed: 28.439730, PhaseRate: 30, PhaseOffset: -15},  // larger lunar elliptic semidiurnal
	{Name: "K2", Amplitude: 0.05, Speed: 30.082137, PhaseRate: 30, PhaseOffset: 45},  // lunisolar semidiurnal
	{Name: "K1", Amplitude: 0.3, Speed: 15.041069, PhaseRate: 15, PhaseOffset: 20},   // lunar diurnal
	{Name: "O1", Amplitude: 0.2, Speed: 13.943035, PhaseRate: 15, PhaseOffset: -10},  // lunar diurnal
	{Name: "P1", Amplitude: 0.1, Speed: 14.958931, PhaseRate: 15, PhaseOffset: 30},   // solar diurnal
	{Name: "Q1", Amplitude: 0.05, Speed: 13.398661, PhaseRate: 15, PhaseOffset: -20}, // larger lunar elliptic diurnal
}
