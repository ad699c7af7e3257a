package calculation

import (
	"fmt"

	"github.com/rpgo/household-forecast/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// personPlan holds one person's inputs and event indices over a timeline
type personPlan struct {
	ages []int

	retireIdx   int // contributions stop
	pensionIdx  int
	ssIdx       int
	aliveEndIdx int // first month at or past life expectancy

	// assisted living applies for months in [assistedStartIdx, assistedEndIdx)
	assistedStartIdx int
	assistedEndIdx   int

	contribution   float64
	pension        float64
	socialSecurity float64
}

func newPersonPlan(p domain.Person, tl domain.Timeline) personPlan {
	ages := AgeSeries(tl, p.BirthDate)
	return personPlan{
		ages:             ages,
		retireIdx:        MonthIndex(tl, p.RetirementDate),
		pensionIdx:       MonthIndex(tl, p.PensionStart()),
		ssIdx:            MonthIndex(tl, p.SocialSecurityStartDate()),
		aliveEndIdx:      firstAgeIndex(ages, p.LifeExpectancy),
		assistedStartIdx: firstAgeIndex(ages, p.AssistedLivingAge),
		assistedEndIdx:   firstAgeIndex(ages, p.LifeExpectancy+1),
		contribution:     p.MonthlyContribution.InexactFloat64(),
		pension:          p.MonthlyPension.InexactFloat64(),
		socialSecurity:   p.MonthlySocialSecurity.InexactFloat64(),
	}
}

// CashFlowPlan is the precomputed, read-only part of a projection: every
// date comparison is resolved to a month index once, so a plan can be run
// against many rate series concurrently.
type CashFlowPlan struct {
	months  int
	persons [2]personPlan

	retiredIdx int // later of the two retirement indices; allocation switches here

	essential  float64
	luxury     float64
	assisted   float64
	cash0      float64
	invest0    float64
	setPoint   float64
	stockPre   float64
	stockPost  float64
	staticLux  bool
	luxuryGate domain.LuxuryGate

	portfolio       domain.PortfolioModel
	nominalSpending bool
	indexOnlyIncome bool
}

// NewCashFlowPlan resolves the parameter set against a timeline. mode is
// the already parsed rate mode and picks the luxury gate when the settings
// leave it on auto.
func NewCashFlowPlan(params *domain.ParameterSet, tl domain.Timeline, mode domain.RateMode, settings domain.SimulationSettings) *CashFlowPlan {
	settings = settings.WithDefaults()
	h := params.Household
	plan := &CashFlowPlan{
		months:          tl.Len(),
		persons:         [2]personPlan{newPersonPlan(params.Self, tl), newPersonPlan(params.Spouse, tl)},
		essential:       h.EssentialSpend.InexactFloat64(),
		luxury:          h.LuxurySpend.InexactFloat64(),
		assisted:        h.AssistedLivingCost.InexactFloat64(),
		cash0:           h.CurrentCash.InexactFloat64(),
		invest0:         h.CurrentInvestment.InexactFloat64(),
		setPoint:        h.CashSetPoint.InexactFloat64(),
		stockPre:        h.StockAllocationPre.InexactFloat64(),
		stockPost:       h.StockAllocationPost.InexactFloat64(),
		staticLux:       params.Rates.StaticLuxuryAffordable(),
		luxuryGate:      settings.EffectiveLuxuryGate(mode),
		portfolio:       settings.Portfolio,
		nominalSpending: settings.NominalSpending,
		indexOnlyIncome: settings.IndexOnlyIncome,
	}
	plan.retiredIdx = max(plan.persons[0].retireIdx, plan.persons[1].retireIdx)
	return plan
}

// Months returns the number of months the plan covers
func (p *CashFlowPlan) Months() int {
	return p.months
}

// RetiredIndex returns the first month using the post-retirement allocation
func (p *CashFlowPlan) RetiredIndex() int {
	return p.retiredIdx
}

// luxuryAllowed applies the luxury gate for month i
func (p *CashFlowPlan) luxuryAllowed(rates *domain.RateSeries, i int) bool {
	if p.luxuryGate == domain.LuxuryGateStatic {
		return p.staticLux
	}
	return rates.Stock[i] > rates.Inflation[i]
}

// Deflators returns the cumulative price level used to express month i in
// real dollars: d[i] = prod over k in 0..i of (1 + inflation[k]).
func Deflators(inflation []float64) []float64 {
	n := len(inflation)
	if n == 0 {
		return nil
	}
	factors := make([]float64, n)
	for k := range inflation {
		factors[k] = 1 + inflation[k]
	}
	return floats.CumProd(make([]float64, n), factors)
}

// Escalators returns the factor applied to month i's spending: e[0] = e[1] = 1
// and e[i] = prod over k in 1..i-1 of (1 + inflation[k]), so spending in the
// first projected month is charged at today's prices.
func Escalators(inflation []float64) []float64 {
	n := len(inflation)
	if n == 0 {
		return nil
	}
	factors := make([]float64, n)
	factors[0] = 1
	if n > 1 {
		factors[1] = 1
	}
	for k := 2; k < n; k++ {
		factors[k] = 1 + inflation[k-1]
	}
	return floats.CumProd(make([]float64, n), factors)
}

// Run steps the household balances through every month of the plan
func (p *CashFlowPlan) Run(rates *domain.RateSeries) (*domain.SimulationResult, error) {
	n := p.months
	if rates.Len() != n || len(rates.Bond) != n || len(rates.Cash) != n || len(rates.Inflation) != n {
		return nil, fmt.Errorf("rate series covers %d months, timeline has %d", rates.Len(), n)
	}

	res := newResult(n)
	res.Rates = rates
	res.AgeSelf = p.persons[0].ages
	res.AgeSpouse = p.persons[1].ages
	if n == 0 {
		return res, nil
	}
	res.Deflator = Deflators(rates.Inflation)
	escalators := Escalators(rates.Inflation)

	ratio := p.stockPre
	if p.portfolio == domain.PortfolioSingle {
		ratio = 1
	}
	cash := p.cash0
	stock := p.invest0 * ratio
	bond := p.invest0 * (1 - ratio)
	res.NominalCash[0], res.NominalStock[0], res.NominalBond[0] = cash, stock, bond
	res.StockRatio[0] = ratio

	for i := 1; i < n; i++ {
		var contributions, income float64
		for k := range p.persons {
			pp := &p.persons[k]
			alive := p.indexOnlyIncome || i < pp.aliveEndIdx
			if !alive {
				continue
			}
			if i < pp.retireIdx {
				contributions += pp.contribution
			}
			if i >= pp.pensionIdx {
				income += pp.pension
			}
			if i >= pp.ssIdx {
				income += pp.socialSecurity
			}
		}

		escalation := escalators[i]
		if p.nominalSpending {
			escalation = 1
		}
		essential := p.essential * escalation
		var luxury, assisted float64
		if p.luxuryAllowed(rates, i) {
			luxury = p.luxury * escalation
		}
		for k := range p.persons {
			pp := &p.persons[k]
			if i >= pp.assistedStartIdx && i < pp.assistedEndIdx {
				assisted += p.assisted * escalation
			}
		}

		totalIncome := contributions + income
		totalSpend := essential + luxury + assisted
		net := totalIncome - totalSpend

		invest := stock + bond
		if net >= 0 {
			cash += net
		} else {
			shortfall := -net
			fromCash := min(cash, shortfall)
			cash -= fromCash
			invest = max(0, invest-(shortfall-fromCash))
		}

		if cash < p.setPoint && invest > 0 {
			transfer := min(p.setPoint-cash, invest)
			cash += transfer
			invest -= transfer
		}

		if p.portfolio == domain.PortfolioSingle {
			stock, bond = invest, 0
		} else {
			ratio = p.stockPre
			if i >= p.retiredIdx {
				ratio = p.stockPost
			}
			stock = invest * ratio
			bond = invest * (1 - ratio)
		}

		cash *= 1 + rates.Cash[i]
		stock *= 1 + rates.Stock[i]
		bond *= 1 + rates.Bond[i]

		res.NominalCash[i], res.NominalStock[i], res.NominalBond[i] = cash, stock, bond
		res.StockRatio[i] = ratio
		res.Contributions[i] = contributions
		res.RetirementIncome[i] = income
		res.EssentialSpend[i] = essential
		res.LuxurySpend[i] = luxury
		res.AssistedSpend[i] = assisted
		res.Income[i] = totalIncome
		res.Spend[i] = totalSpend
	}

	for i := 0; i < n; i++ {
		d := res.Deflator[i]
		res.Cash[i] = res.NominalCash[i] / d
		res.Investment[i] = (res.NominalStock[i] + res.NominalBond[i]) / d
		res.Total[i] = res.Cash[i] + res.Investment[i]
		res.Income[i] /= d
		res.Spend[i] /= d
	}
	return res, nil
}

func newResult(n int) *domain.SimulationResult {
	return &domain.SimulationResult{
		Cash:             make([]float64, n),
		Investment:       make([]float64, n),
		Total:            make([]float64, n),
		Income:           make([]float64, n),
		Spend:            make([]float64, n),
		NominalCash:      make([]float64, n),
		NominalStock:     make([]float64, n),
		NominalBond:      make([]float64, n),
		Contributions:    make([]float64, n),
		RetirementIncome: make([]float64, n),
		EssentialSpend:   make([]float64, n),
		LuxurySpend:      make([]float64, n),
		AssistedSpend:    make([]float64, n),
		StockRatio:       make([]float64, n),
		Deflator:         make([]float64, n),
	}
}
