package provider

// Ticks is a cumulative CPU time reading, in seconds, summed across all CPUs.
type Ticks struct {
	User    float64
	Nice    float64
	System  float64
	Idle    float64
	Iowait  float64
	Irq     float64
	Softirq float64
	Steal   float64
}

// Total returns the sum of all tick counters.
func (t Ticks) Total() float64 {
	return t.User + t.Nice + t.System + t.Idle + t.Iowait + t.Irq + t.Softirq + t.Steal
}

// Busy returns the ticks not spent idle or waiting on I/O.
func (t Ticks) Busy() float64 {
	return t.Total() - t.Idle - t.Iowait
}

// IsZero reports whether no ticks were recorded.
func (t Ticks) IsZero() bool {
	return t.Total() == 0
}

// LoadBetween returns the busy fraction in [0,1] between two readings.
// It returns 0 when no time elapsed or the counters went backwards.
func LoadBetween(prev, cur Ticks) float64 {
	total := cur.Total() - prev.Total()
	if total <= 0 {
		return 0
	}
	busy := cur.Busy() - prev.Busy()
	switch {
	case busy <= 0:
		return 0
	case busy >= total:
		return 1
	}
	return busy / total
}
