package gps

// Fix represents a single combined GPS fix suitable for JSON and MQTT.
// Position, speed and course come from RMC sentences; altitude and satellite
// count from GGA.
type Fix struct {
	Time       string  `json:"time"`        // e.g. "12:34:56"
	Date       string  `json:"date"`        // e.g. "2025-12-06"
	Latitude   float64 `json:"lat"`         // decimal degrees
	Longitude  float64 `json:"lon"`         // decimal degrees
	SpeedKnots float64 `json:"speed_knots"` // speed over ground
	CourseDeg  float64 `json:"course_deg"`  // course over ground
	AltitudeM  float64 `json:"altitude_m"`  // above mean sea level
	Satellites int64   `json:"satellites"`  // satellites in use
	Validity   string  `json:"validity"`    // "A" (valid) / "V" (void), etc.
}
