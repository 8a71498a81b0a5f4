package studio

import (
	"fmt"
	"slices"
	"strings"
)

// TimelineOrder decides the order of year buckets.
type TimelineOrder string

const (
	// OrderAppearance keeps buckets in the order their first event appears.
	OrderAppearance TimelineOrder = "appearance"
	// OrderChronological sorts buckets by year key.
	OrderChronological TimelineOrder = "chronological"
)

// ParseTimelineOrder validates s. Empty means OrderAppearance.
func ParseTimelineOrder(s string) (TimelineOrder, error) {
	switch TimelineOrder(s) {
	case "", OrderAppearance:
		return OrderAppearance, nil
	case OrderChronological:
		return OrderChronological, nil
	}
	return "", fmt.Errorf("unknown timeline order %q", s)
}

// YearBucket holds the events sharing a year key, in input order.
type YearBucket struct {
	Year   string
	Events []TimelineEvent
}

// YearKey is the first four characters of date. It is not parsed, so
// malformed dates still land in a bucket of their own.
func YearKey(date string) string {
	r := []rune(date)
	if len(r) > 4 {
		r = r[:4]
	}
	return string(r)
}

// GroupByYear buckets events by YearKey.
func GroupByYear(events []TimelineEvent, order TimelineOrder) []YearBucket {
	index := make(map[string]int)
	var buckets []YearBucket
	for _, ev := range events {
		key := YearKey(ev.Date)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, YearBucket{Year: key})
		}
		buckets[i].Events = append(buckets[i].Events, ev)
	}
	if order == OrderChronological {
		slices.SortStableFunc(buckets, func(a, b YearBucket) int {
			return strings.Compare(a.Year, b.Year)
		})
	}
	return buckets
}
