package compensation

import (
	"github.com/shopspring/decimal"
)

// Pure compensation math shared by services. Every monetary result is rounded
// to 2 decimal places; decimal.Round rounds half away from zero, which is
// round-half-up for the non-negative amounts handled here.

// yieldTier is one row of the staking yield table. The lower bound is
// exclusive, the upper bound inclusive, so a principal sitting exactly on a
// shared boundary resolves to the tier whose upper bound names it.
type yieldTier struct {
	lower decimal.Decimal // exclusive
	upper decimal.Decimal // inclusive; zero value on the open-ended top tier
	rate  decimal.Decimal // fraction, e.g. 0.04
}

// MinimumStake is the smallest principal that earns yield.
var MinimumStake = decimal.NewFromInt(100)

var yieldTiers = []yieldTier{
	{lower: decimal.NewFromInt(10000), rate: decimal.NewFromFloat(0.08)},
	{lower: decimal.NewFromInt(6000), upper: decimal.NewFromInt(10000), rate: decimal.NewFromFloat(0.07)},
	{lower: decimal.NewFromInt(4000), upper: decimal.NewFromInt(6000), rate: decimal.NewFromFloat(0.06)},
	{lower: decimal.NewFromInt(1000), upper: decimal.NewFromInt(4000), rate: decimal.NewFromFloat(0.05)},
	{lower: MinimumStake, upper: decimal.NewFromInt(1000), rate: decimal.NewFromFloat(0.04)},
}

// StakingYield returns the monthly yield for the given principal based on the
// tier table. Principals below the minimum stake earn nothing. Tiers are
// scanned from the highest rate downward.
func StakingYield(principal decimal.Decimal) decimal.Decimal {
	if principal.LessThan(MinimumStake) {
		return decimal.Zero
	}
	for _, tier := range yieldTiers {
		if principal.GreaterThan(tier.lower) {
			return Round2(principal.Mul(tier.rate))
		}
	}
	// principal == MinimumStake; the bottom tier's lower bound is inclusive.
	return Round2(principal.Mul(yieldTiers[len(yieldTiers)-1].rate))
}

// generationSchedule is the flat per-level payout triggered by a new package
// purchase, for unlocked levels 1-5.
var generationSchedule = []int64{300, 100, 80, 70, 60}

// GenerationCommission returns the fixed commission amount for the given
// upline level (1-based). Levels outside the schedule pay nothing.
func GenerationCommission(level int) decimal.Decimal {
	if level < 1 || level > len(generationSchedule) {
		return decimal.Zero
	}
	return decimal.NewFromInt(generationSchedule[level-1])
}

// ReferralCreditRates is the percentage table applied to one-time package
// amounts on the referral-credit path. It is intentionally distinct from
// YieldReferralRates even though both feed referral-income entries; the two
// tables evolved independently and unifying them would change payouts.
var ReferralCreditRates = []decimal.Decimal{
	decimal.NewFromInt(20),
	decimal.NewFromInt(10),
	decimal.NewFromInt(5),
}

// YieldReferralRates is the percentage table applied to monthly yield amounts
// on the periodic distribution path.
var YieldReferralRates = []decimal.Decimal{
	decimal.NewFromInt(20),
	decimal.NewFromInt(17),
	decimal.NewFromInt(13),
	decimal.NewFromInt(9),
	decimal.NewFromInt(5),
}

var hundred = decimal.NewFromInt(100)

func rateFromTable(table []decimal.Decimal, level int) decimal.Decimal {
	if level < 1 || level > len(table) {
		return decimal.Zero
	}
	return table[level-1]
}

// ReferralCredit returns the referral income for a one-time package amount at
// the given upline level, using the package-fanout table.
func ReferralCredit(level int, base decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rateFromTable(ReferralCreditRates, level)).Div(hundred))
}

// ReferralCreditRate exposes the percentage applied at the given level.
func ReferralCreditRate(level int) decimal.Decimal {
	return rateFromTable(ReferralCreditRates, level)
}

// YieldReferral returns the referral income for a monthly yield amount at the
// given upline level, using the periodic table.
func YieldReferral(level int, base decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(rateFromTable(YieldReferralRates, level)).Div(hundred))
}

// YieldReferralRate exposes the percentage applied at the given level.
func YieldReferralRate(level int) decimal.Decimal {
	return rateFromTable(YieldReferralRates, level)
}

// IsLevelUnlocked reports whether a sponsor with the given direct referral
// count is eligible for commission at the given generation level. Evaluated at
// distribution time; levels are independent of each other.
func IsLevelUnlocked(directCount int, level int) bool {
	return level >= 1 && directCount >= level
}

// franchiseBonusRates maps the scheduled application amounts to their bonus
// percentage. Amounts outside the schedule earn no bonus.
var franchiseBonusRates = map[string]decimal.Decimal{
	"100":  decimal.NewFromInt(10),
	"200":  decimal.NewFromInt(10),
	"500":  decimal.NewFromInt(15),
	"1000": decimal.NewFromInt(20),
}

// FranchiseBonusRate returns the bonus percentage for a franchise application
// amount, or zero for amounts not on the schedule.
func FranchiseBonusRate(amount decimal.Decimal) decimal.Decimal {
	if rate, ok := franchiseBonusRates[amount.String()]; ok {
		return rate
	}
	return decimal.Zero
}

// FranchiseBonus returns the bonus credited on top of an approved franchise
// application amount.
func FranchiseBonus(amount decimal.Decimal) decimal.Decimal {
	return Round2(amount.Mul(FranchiseBonusRate(amount)).Div(hundred))
}

// RealizedRate is the effective yield rate actually paid: amount / principal,
// rounded to 4 decimal places. Zero principal yields a zero rate.
func RealizedRate(amount, principal decimal.Decimal) decimal.Decimal {
	if principal.IsZero() {
		return decimal.Zero
	}
	return amount.Div(principal).Round(4)
}

// Round2 rounds a monetary amount to 2 decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
