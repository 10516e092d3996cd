package pension

import "github.com/shopspring/decimal"

// DeriveAssetPerMember sets AssetPerMember on every record.
func DeriveAssetPerMember(records []Record) {
	for i := range records {
		records[i].AssetPerMember = assetPerMember(records[i].Assets, records[i].Memberships)
	}
}

// assetPerMember returns assets/memberships rounded to pence, or nil unless
// both inputs are present and strictly positive.
func assetPerMember(assets *float64, memberships *int64) *float64 {
	if assets == nil || memberships == nil || *assets <= 0 || *memberships <= 0 {
		return nil
	}
	v := decimal.NewFromFloat(*assets).
		Div(decimal.NewFromInt(*memberships)).
		RoundBank(2).
		InexactFloat64()
	return &v
}
