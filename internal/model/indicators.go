package model

// IndicatorPoint is a normalized close augmented with both moving averages.
// A nil SMA means the window has not warmed up yet at this point.
type IndicatorPoint struct {
	Date     Date     `json:"date"`
	Close    float64  `json:"close"`
	ShortSMA *float64 `json:"shortSMA"`
	LongSMA  *float64 `json:"longSMA"`
}

// HasBoth reports whether both averages are defined.
func (p IndicatorPoint) HasBoth() bool {
	return p.ShortSMA != nil && p.LongSMA != nil
}
