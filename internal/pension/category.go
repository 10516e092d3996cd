package pension

// MembershipSize buckets a scheme by its average membership.
type MembershipSize int

const (
	MembershipUnder5K MembershipSize = iota
	Membership5KTo50K
	Membership50KTo500K
	Membership500KPlus
)

var membershipLabels = [...]string{
	MembershipUnder5K:   "<5k members",
	Membership5KTo50K:   "5k-50k members",
	Membership50KTo500K: "50k-500k members",
	Membership500KPlus:  ">=500k members",
}

func (m MembershipSize) String() string {
	if m < 0 || int(m) >= len(membershipLabels) {
		return "unknown"
	}
	return membershipLabels[m]
}

// AssetValue buckets a scheme by its average asset value in pounds.
type AssetValue int

const (
	AssetsUnder10M AssetValue = iota
	Assets10MTo100M
	Assets100MTo1B
	Assets1BPlus
)

var assetLabels = [...]string{
	AssetsUnder10M:  "<£10M",
	Assets10MTo100M: "£10M-£100M",
	Assets100MTo1B:  "£100M-£1B",
	Assets1BPlus:    ">=£1B",
}

func (a AssetValue) String() string {
	if a < 0 || int(a) >= len(assetLabels) {
		return "unknown"
	}
	return assetLabels[a]
}

// Thresholds are ascending upper bounds; a value lands in the first bucket whose
// bound it is strictly below, or in the overflow bucket len(Thresholds).
type Thresholds []float64

var (
	membershipThresholds = Thresholds{5_000, 50_000, 500_000}
	assetThresholds      = Thresholds{10_000_000, 100_000_000, 1_000_000_000}
)

// Bucket returns the ordinal bucket for v.
func (t Thresholds) Bucket(v float64) int {
	for i, bound := range t {
		if v < bound {
			return i
		}
	}
	return len(t)
}

// ClassifyMembershipSize maps an average membership to its bucket; nil stays nil.
func ClassifyMembershipSize(avg *float64) *MembershipSize {
	if avg == nil {
		return nil
	}
	m := MembershipSize(membershipThresholds.Bucket(*avg))
	return &m
}

// ClassifyAssetValue maps an average asset value to its bucket; nil stays nil.
func ClassifyAssetValue(avg *float64) *AssetValue {
	if avg == nil {
		return nil
	}
	a := AssetValue(assetThresholds.Bucket(*avg))
	return &a
}
