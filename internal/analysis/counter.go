package analysis

import "sort"

// Counter tallies names while remembering first-seen order, so that ties
// in its sorted views come out deterministic.
type Counter struct {
	order []string
	count map[string]int
}

func NewCounter() *Counter {
	return &Counter{count: make(map[string]int)}
}

func (c *Counter) Add(name string, n int) {
	if _, ok := c.count[name]; !ok {
		c.order = append(c.order, name)
	}
	c.count[name] += n
}

// Len reports how many distinct names have been counted.
func (c *Counter) Len() int {
	return len(c.order)
}

// Items returns every entry in first-seen order.
func (c *Counter) Items() []Count {
	items := make([]Count, 0, len(c.order))
	for _, name := range c.order {
		items = append(items, Count{Name: name, Count: c.count[name]})
	}
	return items
}

// Top returns the limit highest-counted entries, descending; ties keep
// first-seen order. A limit of zero or less returns everything.
func (c *Counter) Top(limit int) []Count {
	items := c.Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Max returns the highest-counted name, the first seen winning ties. The
// second result is false when nothing has been counted.
func (c *Counter) Max() (string, bool) {
	best, bestCount := "", 0
	for _, name := range c.order {
		if c.count[name] > bestCount {
			best, bestCount = name, c.count[name]
		}
	}
	return best, best != ""
}
