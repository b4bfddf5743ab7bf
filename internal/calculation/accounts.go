package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// Bucket is one account's mutable per-path balance. CostBasis is tracked
// only for taxable accounts.
type Bucket struct {
	Name      string
	Type      domain.BucketType
	Value     decimal.Decimal
	CostBasis decimal.Decimal
	Alloc     *domain.AssetAllocation
}

// BucketSet is a path's working copy of the household's accounts. It
// preserves account order, which makes draws deterministic.
type BucketSet struct {
	Buckets []*Bucket
}

// NewBucketSet copies the profile accounts into a fresh working set. The
// caller's profile is never mutated.
func NewBucketSet(accounts []domain.InvestmentAccount) *BucketSet {
	bs := &BucketSet{}
	for _, acct := range accounts {
		b := &Bucket{
			Name:      acct.Name,
			Type:      acct.BucketType,
			Value:     acct.Value,
			CostBasis: acct.CostBasis,
		}
		if acct.AllocationOverride != nil {
			ao := *acct.AllocationOverride
			b.Alloc = &ao
		}
		bs.Buckets = append(bs.Buckets, b)
	}
	return bs
}

// Clone deep-copies the set. The gross-up search runs trial draws on a
// clone and commits only the converged allocation.
func (bs *BucketSet) Clone() *BucketSet {
	out := &BucketSet{Buckets: make([]*Bucket, len(bs.Buckets))}
	for i, b := range bs.Buckets {
		nb := *b
		if b.Alloc != nil {
			a := *b.Alloc
			nb.Alloc = &a
		}
		out.Buckets[i] = &nb
	}
	return out
}

// Total returns the combined value of every bucket.
func (bs *BucketSet) Total() decimal.Decimal {
	var total decimal.Decimal
	for _, b := range bs.Buckets {
		total = total.Add(b.Value)
	}
	return total
}

// TotalByType returns the combined value of buckets of one type.
func (bs *BucketSet) TotalByType(bt domain.BucketType) decimal.Decimal {
	var total decimal.Decimal
	for _, b := range bs.Buckets {
		if b.Type == bt {
			total = total.Add(b.Value)
		}
	}
	return total
}

// Balances snapshots every bucket type's total.
func (bs *BucketSet) Balances() domain.BucketBalances {
	return domain.BucketBalances{
		Cash:           bs.TotalByType(domain.BucketCash),
		Taxable:        bs.TotalByType(domain.BucketTaxable),
		PretaxStandard: bs.TotalByType(domain.BucketPretaxStandard),
		Pretax457:      bs.TotalByType(domain.BucketPretax457),
		Roth:           bs.TotalByType(domain.BucketRoth),
	}
}

// Grow applies one year of returns. Cash earns the fixed yield; every
// other bucket earns the blended stock/bond return, or its own blend when
// the account carries an allocation override. Cost basis does not grow.
func (bs *BucketSet) Grow(stockReturn, bondReturn, cashYield decimal.Decimal, defaultAlloc domain.AssetAllocation) {
	one := decimal.NewFromInt(1)
	for _, b := range bs.Buckets {
		if b.Type == domain.BucketCash {
			b.Value = b.Value.Mul(one.Add(cashYield))
			continue
		}
		alloc := defaultAlloc
		if b.Alloc != nil {
			alloc = *b.Alloc
		}
		blended := stockReturn.Mul(alloc.Stocks).Add(bondReturn.Mul(alloc.Bonds))
		b.Value = b.Value.Mul(one.Add(blended))
		if b.Value.IsNegative() {
			b.Value = decimal.Zero
		}
	}
}

// WithdrawResult reports what one WithdrawFrom call actually moved.
type WithdrawResult struct {
	Withdrawn    decimal.Decimal
	RealizedGain decimal.Decimal // taxable buckets only
}

// WithdrawFrom draws up to amount from buckets of the given type, in
// account order, never driving a balance negative. For taxable buckets
// the realized gain is the drawn amount times the bucket's gain fraction,
// and basis is reduced proportionally.
func (bs *BucketSet) WithdrawFrom(bt domain.BucketType, amount decimal.Decimal) WithdrawResult {
	var res WithdrawResult
	if amount.LessThanOrEqual(decimal.Zero) {
		return res
	}
	remaining := amount
	for _, b := range bs.Buckets {
		if b.Type != bt || remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		draw := decimal.Min(remaining, b.Value)
		if draw.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if bt == domain.BucketTaxable && b.Value.GreaterThan(decimal.Zero) {
			basisFraction := b.CostBasis.Div(b.Value)
			gain := draw.Mul(decimal.NewFromInt(1).Sub(basisFraction))
			if gain.IsNegative() {
				gain = decimal.Zero
			}
			res.RealizedGain = res.RealizedGain.Add(gain)
			b.CostBasis = b.CostBasis.Sub(draw.Sub(gain))
			if b.CostBasis.IsNegative() {
				b.CostBasis = decimal.Zero
			}
		}
		b.Value = b.Value.Sub(draw)
		res.Withdrawn = res.Withdrawn.Add(draw)
		remaining = remaining.Sub(draw)
	}
	return res
}

// Deposit adds amount to the first bucket of the given type, creating one
// if none exists. basisIncrease raises cost basis alongside the deposit
// for taxable buckets.
func (bs *BucketSet) Deposit(bt domain.BucketType, amount, basisIncrease decimal.Decimal) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return
	}
	for _, b := range bs.Buckets {
		if b.Type == bt {
			b.Value = b.Value.Add(amount)
			b.CostBasis = b.CostBasis.Add(basisIncrease)
			return
		}
	}
	bs.Buckets = append(bs.Buckets, &Bucket{
		Name:      string(bt),
		Type:      bt,
		Value:     amount,
		CostBasis: basisIncrease,
	})
}
