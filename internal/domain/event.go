package domain

// ChartEvent marks a notable market event on the price chart
type ChartEvent struct {
	Date  string
	Label string
	Color string
}

const (
	eventColorBullish = "#4ade80"
	eventColorBearish = "#ef4444"
	eventColorMacro   = "#f59e0b"
)

// ChartEvents is the fixed list of annotated events, in date order
var ChartEvents = []ChartEvent{
	{Date: "2013-12-04", Label: "$1K", Color: eventColorBullish},
	{Date: "2017-12-17", Label: "ATH $19.5K", Color: eventColorBullish},
	{Date: "2020-03-12", Label: "COVID", Color: eventColorBearish},
	{Date: "2020-03-23", Label: "QE", Color: eventColorMacro},
	{Date: "2021-11-10", Label: "ATH $69K", Color: eventColorBullish},
	{Date: "2022-03-16", Label: "Rate hikes", Color: eventColorMacro},
	{Date: "2022-11-11", Label: "FTX", Color: eventColorBearish},
	{Date: "2024-01-10", Label: "ETF", Color: eventColorBullish},
	{Date: "2024-03-14", Label: "ATH $73K", Color: eventColorBullish},
}

// FilterEventsToRange returns the events whose date lies within [start, end]
func FilterEventsToRange(events []ChartEvent, start, end string) []ChartEvent {
	filtered := make([]ChartEvent, 0, len(events))
	for _, e := range events {
		if e.Date >= start && e.Date <= end {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
