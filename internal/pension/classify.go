package pension

import "github.com/shopspring/decimal"

// metric extracts an optional numeric value from a record.
type metric func(r *Record) (float64, bool)

func membershipsMetric(r *Record) (float64, bool) {
	if r.Memberships == nil {
		return 0, false
	}
	return float64(*r.Memberships), true
}

func assetsMetric(r *Record) (float64, bool) {
	if r.Assets == nil {
		return 0, false
	}
	return *r.Assets, true
}

// entityMean averages the non-null metric values of one scheme, rounded to
// the nearest whole unit (ties to even). No values at all yields nil.
func entityMean(m metric) func(group []*Record) *float64 {
	return func(group []*Record) *float64 {
		sum := decimal.Zero
		n := int64(0)
		for _, r := range group {
			v, ok := m(r)
			if !ok {
				continue
			}
			sum = sum.Add(decimal.NewFromFloat(v))
			n++
		}
		if n == 0 {
			return nil
		}
		avg := sum.Div(decimal.NewFromInt(n)).RoundBank(0).InexactFloat64()
		return &avg
	}
}

// classified pairs an entity average with its bucket.
type classified[C any] struct {
	avg      *float64
	category *C
}

// classify computes a per-scheme average of m, buckets it with bucket, and
// merges both back onto every record through assign.
func classify[C any](records []Record, m metric, bucket func(*float64) *C, assign func(r *Record, avg *float64, c *C)) {
	mean := entityMean(m)
	AggregateAndBroadcast(records,
		func(group []*Record) classified[C] {
			avg := mean(group)
			return classified[C]{avg: avg, category: bucket(avg)}
		},
		func(r *Record, v classified[C]) {
			assign(r, v.avg, v.category)
		},
	)
}

// ClassifyMembership sets AvgMemberships and MembershipSize on every record
// from its scheme's average membership across all years.
func ClassifyMembership(records []Record) {
	classify(records, membershipsMetric, ClassifyMembershipSize,
		func(r *Record, avg *float64, c *MembershipSize) {
			r.AvgMemberships = avg
			r.MembershipSize = c
		})
}

// ClassifyAssets sets AvgAssets and AssetValue on every record from its
// scheme's average asset value across all years.
func ClassifyAssets(records []Record) {
	classify(records, assetsMetric, ClassifyAssetValue,
		func(r *Record, avg *float64, c *AssetValue) {
			r.AvgAssets = avg
			r.AssetValue = c
		})
}
