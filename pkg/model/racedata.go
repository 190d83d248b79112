package model

// Race identifies one recorded session (e.g. 2023 Silverstone, Race).
type Race struct {
	ID        int    `json:"id"`
	Key       string `json:"key"`
	Year      int    `json:"year"`
	GrandPrix string `json:"grandPrix"`
	Session   string `json:"session"`
}

type Driver struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Team         string `json:"team"`
}

// TelemetrySample is one recorded instant of a lap, ordered by Time.
// Gear 0 means the gear is unknown. Throttle and brake are fractions
// in [0,1] and may be absent depending on the data source.
type TelemetrySample struct {
	Time     float64  `json:"time"`  // milliseconds from lap start
	Speed    float64  `json:"speed"` // km/h
	Gear     int      `json:"gear"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Throttle *float64 `json:"throttle,omitempty"`
	Brake    *float64 `json:"brake,omitempty"`
}
