package pension

type activity struct {
	lastActive   int
	discontinued *int
}

// DetectDiscontinued sets LastActiveYear and DiscontinuedYear on every record
// and returns the number of discontinued schemes. A scheme last seen before
// finalYear is presumed discontinued the year after; one seen in finalYear is
// still active.
func DetectDiscontinued(records []Record, finalYear int) int {
	values := AggregateAndBroadcast(records,
		func(group []*Record) activity {
			last := group[0].Year
			for _, r := range group[1:] {
				if r.Year > last {
					last = r.Year
				}
			}
			a := activity{lastActive: last}
			if last < finalYear {
				next := last + 1
				a.discontinued = &next
			}
			return a
		},
		func(r *Record, a activity) {
			r.LastActiveYear = a.lastActive
			r.DiscontinuedYear = a.discontinued
		},
	)

	n := 0
	for _, a := range values {
		if a.discontinued != nil {
			n++
		}
	}
	return n
}
