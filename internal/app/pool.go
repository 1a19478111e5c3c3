package service

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/gaffer/internal/domain/model"
	"github.com/okian/gaffer/internal/domain/recommend"
)

// evalJob carries one player plus its position in the input batch so
// results can be reassembled in input order.
type evalJob struct {
	idx    int
	player model.Player
}

type evalResult struct {
	idx        int
	assessment recommend.Assessment
	err        error
}

// fanOut distributes the batch over a fixed pool of goroutines. A
// canceled context marks remaining players as skipped rather than
// blocking.
func (s *Service) fanOut(ctx context.Context, players []model.Player) ([]recommend.Assessment, []Skipped) {
	if len(players) == 0 {
		return []recommend.Assessment{}, []Skipped{}
	}

	workers := s.workerCount
	if workers > len(players) {
		workers = len(players)
	}

	jobs := make(chan evalJob)
	results := make(chan evalResult, len(players))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				a, err := s.assess(ctx, job.player)
				results <- evalResult{idx: job.idx, assessment: a, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range players {
			select {
			case <-ctx.Done():
				results <- evalResult{idx: i, err: ctx.Err()}
			case jobs <- evalJob{idx: i, player: players[i]}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]evalResult, 0, len(players))
	for r := range results {
		collected = append(collected, r)
	}
	// Input order, not completion order.
	sort.Slice(collected, func(i, j int) bool { return collected[i].idx < collected[j].idx })

	assessments := make([]recommend.Assessment, 0, len(collected))
	skipped := make([]Skipped, 0)
	for _, r := range collected {
		if r.err != nil {
			skipped = append(skipped, Skipped{
				PlayerID: players[r.idx].ID,
				Reason:   r.err.Error(),
			})
			continue
		}
		assessments = append(assessments, r.assessment)
	}
	return assessments, skipped
}
