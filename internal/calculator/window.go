package calculator

import "MarketCross/internal/model"

// SelectWindow returns the most recent windowDays points, preserving order.
func SelectWindow(points []model.IndicatorPoint, windowDays int) []model.IndicatorPoint {
	if windowDays <= 0 {
		return []model.IndicatorPoint{}
	}
	start := len(points) - windowDays
	if start < 0 {
		start = 0
	}
	out := make([]model.IndicatorPoint, len(points)-start)
	copy(out, points[start:])
	return out
}

// FilterEvents keeps only the events dated inside the window.
func FilterEvents(events []model.CrossoverEvent, window []model.IndicatorPoint) []model.CrossoverEvent {
	visible := make(map[model.Date]struct{}, len(window))
	for _, p := range window {
		visible[p.Date] = struct{}{}
	}
	out := make([]model.CrossoverEvent, 0, len(events))
	for _, e := range events {
		if _, ok := visible[e.Date]; ok {
			out = append(out, e)
		}
	}
	return out
}
