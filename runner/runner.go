package runner

import (
	"github.com/snowfam/simulator/network"
	"github.com/snowfam/simulator/node"
	"github.com/snowfam/simulator/output"
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/util/logging"
	"github.com/snowfam/simulator/warding"
)

// Runner orchestrates one simulation run end to end (spec §4.1): it owns
// the population, the stepping discipline, the modifier pipeline, the
// wards, and the shared RNG, and folds rounds sequentially into a Table.
type Runner struct {
	pop       *node.Population
	style     Style
	rngSrc    *rng.Source
	modifiers []network.Modifier
	wards     []warding.Ward
	log       *logging.Logging
}

// New builds a Runner. pop is expected to already be constructed (see
// BuildPopulation) with round-0 opinions set.
func New(pop *node.Population, style Style, rngSrc *rng.Source, modifiers []network.Modifier, wards []warding.Ward, log *logging.Logging) *Runner {
	if log == nil {
		log = logging.New()
	}
	return &Runner{pop: pop, style: style, rngSrc: rngSrc, modifiers: modifiers, wards: wards, log: log}
}

// Run executes the configured stepping discipline until a ward stops it
// (or, for Glauber, until MaximumIterations elapses) and returns the
// completed result table.
func (r *Runner) Run() *output.Table {
	table := output.NewTable(r.pop.Len())
	table.Append(r.pop.Row())

	r.log.Log().Info().Int("population", r.pop.Len()).Msg("starting simulation run")

	switch s := r.style.(type) {
	case Async:
		r.runAsync(table, s)
	case Glauber:
		r.runGlauber(table, s)
	case Layered:
		r.runLayered(table, s)
	default:
		r.runSync(table)
	}

	r.log.Log().Info().Int("rounds", table.Rounds()).Msg("simulation run complete")
	return table
}

func (r *Runner) runSync(table *output.Table) {
	for {
		view := r.pop.Snapshot()
		for _, n := range r.pop.Nodes() {
			n.Step(view, r.rngSrc, r.modifiers)
		}
		table.Append(r.pop.Row())
		if r.shouldStop(table) {
			return
		}
	}
}

func (r *Runner) runAsync(table *output.Table, s Async) {
	chunks := make([][]node.ID, s.Chunks)
	for _, n := range r.pop.Nodes() {
		bucket := int(n.ID()) % s.Chunks
		chunks[bucket] = append(chunks[bucket], n.ID())
	}

	for {
		for _, chunk := range chunks {
			view := r.pop.Snapshot()
			for _, id := range chunk {
				r.pop.Node(id).Step(view, r.rngSrc, r.modifiers)
			}
			table.Append(r.pop.Row())
			if r.shouldStop(table) {
				return
			}
		}
	}
}

func (r *Runner) runGlauber(table *output.Table, s Glauber) {
	for it := 1; it <= s.MaximumIterations; it++ {
		view := r.pop.Snapshot()
		id := node.ID(r.rngSrc.ChooseUint(r.pop.Len()))
		r.pop.Node(id).Step(view, r.rngSrc, r.modifiers)

		if it%s.UpdateRate != 0 {
			continue
		}
		table.Append(r.pop.Row())
		if r.shouldStop(table) {
			return
		}
	}
}

func (r *Runner) runLayered(table *output.Table, s Layered) {
	ringSize := s.Gap + 1
	buckets := make([][]node.ID, ringSize)
	for _, n := range r.pop.Nodes() {
		buckets[0] = append(buckets[0], n.ID())
	}
	head := 0

	allEmpty := func() bool {
		for _, b := range buckets {
			if len(b) > 0 {
				return false
			}
		}
		return true
	}

	for {
		// Drawable buckets are the Gap ring positions starting at head; the
		// last position in the ring (head+Gap, mod ringSize) only parks
		// overflow from the last drawable bucket until the ring rotates.
		type candidate struct {
			bucket int
			weight float32
		}
		candidates := make([]candidate, 0, s.Gap)
		for offset := 0; offset < s.Gap; offset++ {
			b := (head + offset) % ringSize
			if len(buckets[b]) == 0 {
				continue
			}
			w := float32(1)
			if len(s.Distribution) == s.Gap {
				w = s.Distribution[offset]
			}
			candidates = append(candidates, candidate{bucket: b, weight: w})
		}
		if len(candidates) == 0 {
			return
		}

		weights := make([]float32, len(candidates))
		for i, c := range candidates {
			weights[i] = c.weight
		}
		chosen := candidates[r.rngSrc.WeightedIndex(weights)].bucket

		id := buckets[chosen][0]
		buckets[chosen] = buckets[chosen][1:]

		view := r.pop.Snapshot()
		n := r.pop.Node(id)
		n.Step(view, r.rngSrc, r.modifiers)
		if !n.Decided() {
			next := (chosen + 1) % ringSize
			buckets[next] = append(buckets[next], id)
		}

		// The ring rotates whenever its current head bucket is empty,
		// whether or not head was the bucket just drawn from; a rotation
		// can cascade across several empty head buckets in one iteration.
		for len(buckets[head]) == 0 {
			table.Append(r.pop.Row())
			if r.shouldStop(table) {
				return
			}
			head = (head + 1) % ringSize
			if allEmpty() {
				return
			}
		}
	}
}

// shouldStop consults the ward list against the table recorded so far.
func (r *Runner) shouldStop(table *output.Table) bool {
	if len(r.wards) == 0 {
		return false
	}

	columns := table.Columns()
	snapshots := make([]warding.Snapshot, len(columns))
	for i, col := range columns {
		snapshots[i] = warding.Snapshot(col)
	}

	decided := 0
	for _, n := range r.pop.Nodes() {
		if n.Decided() {
			decided++
		}
	}

	return warding.Any(r.wards, snapshots, decided, r.pop.Len())
}
