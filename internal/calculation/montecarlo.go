package calculation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/rpgo/household-forecast/internal/domain"
)

// MonteCarloSimulator runs one plan against many independently bootstrapped rate series
type MonteCarloSimulator struct {
	Plan           *CashFlowPlan
	Sampler        *BootstrapRates
	NumSimulations int
	Workers        int
	Seed           int64 // master seed; member seeds are drawn from it
	Logger         Logger
}

// NewMonteCarloSimulator creates a simulator, drawing a master seed when settings carry none
func NewMonteCarloSimulator(plan *CashFlowPlan, sampler *BootstrapRates, settings domain.SimulationSettings) *MonteCarloSimulator {
	settings = settings.WithDefaults()
	return &MonteCarloSimulator{
		Plan:           plan,
		Sampler:        sampler,
		NumSimulations: settings.NumSimulations,
		Workers:        settings.Workers,
		Seed:           resolveSeed(settings.Seed),
		Logger:         NopLogger{},
	}
}

// MemberSeeds derives one seed per member from the master seed, so member k
// always sees the same draws regardless of scheduling.
func (mcs *MonteCarloSimulator) MemberSeeds() []int64 {
	master := rand.New(rand.NewSource(mcs.Seed))
	seeds := make([]int64, mcs.NumSimulations)
	for i := range seeds {
		seeds[i] = master.Int63()
	}
	return seeds
}

func (mcs *MonteCarloSimulator) workerCount() int {
	n := mcs.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > mcs.NumSimulations {
		n = mcs.NumSimulations
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RunSimulation executes every member on a bounded worker pool. Cancellation is
// checked between members; a member that has started always finishes.
func (mcs *MonteCarloSimulator) RunSimulation(ctx context.Context) (*domain.Ensemble, error) {
	if mcs.Plan == nil || mcs.Sampler == nil {
		return nil, fmt.Errorf("monte carlo simulator is missing its plan or sampler")
	}
	if mcs.NumSimulations < 1 {
		return nil, fmt.Errorf("%w: simulation.num_simulations must be at least 1", domain.ErrInvalidConfiguration)
	}
	logger := mcs.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	seeds := mcs.MemberSeeds()
	members := make([]*domain.SimulationResult, mcs.NumSimulations)
	numWorkers := mcs.workerCount()
	logger.Debugf("monte carlo: %d members on %d workers, master seed %d", mcs.NumSimulations, numWorkers, mcs.Seed)

	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) { errOnce.Do(func() { firstErr = err }) }

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for b := range jobs {
				if ctx.Err() != nil {
					continue
				}
				rng := rand.New(rand.NewSource(seeds[b]))
				series := mcs.Sampler.Sample(mcs.Plan.Months(), rng)
				res, err := mcs.Plan.Run(series)
				if err != nil {
					fail(fmt.Errorf("member %d: %w", b, err))
					continue
				}
				members[b] = res
			}
		}()
	}

dispatch:
	for b := 0; b < mcs.NumSimulations; b++ {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- b:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warnf("monte carlo cancelled: %v", err)
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return &domain.Ensemble{Members: members, Seeds: seeds}, nil
}
