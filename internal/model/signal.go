package model

// CrossoverKind classifies the direction of a crossing.
type CrossoverKind string

const (
	Bullish CrossoverKind = "bullish" // short SMA moved above long SMA
	Bearish CrossoverKind = "bearish" // short SMA moved below long SMA
)

// CrossoverEvent marks the day on which the short SMA crossed the long SMA.
type CrossoverEvent struct {
	Date Date          `json:"date"`
	Kind CrossoverKind `json:"kind"`
}
