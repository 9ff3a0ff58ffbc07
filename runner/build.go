package runner

import (
	"github.com/snowfam/simulator/consensus/claro"
	"github.com/snowfam/simulator/consensus/snowball"
	"github.com/snowfam/simulator/node"
	"github.com/snowfam/simulator/rng"
	"github.com/snowfam/simulator/vote"
)

// BackendKind selects which consensus backend Honest nodes run.
type BackendKind int

const (
	SnowballBackend BackendKind = iota
	ClaroBackend
)

// BackendConfig holds the parameters for whichever backend Kind selects.
type BackendConfig struct {
	Kind     BackendKind
	Snowball snowball.Configuration
	Claro    claro.Configuration
}

// RoleWeights is the role mix {honest, infantile, random, omniscient},
// in that order, matching node.Role's iota ordering.
type RoleWeights [4]float32

// OpinionWeights is the opinion mix {yes, no, none}, in that order.
type OpinionWeights [3]float32

// BuildPopulation allocates totalSize nodes (spec §4.1's construction
// step): for each id in order, draw a role from roleWeights, then — for
// Honest and Infantile roles, which both need one — draw an initial
// opinion from opinionWeights. Drawing role-then-opinion per node in id
// order is the specific RNG consumption order this implementation commits
// to; spec §9 requires *an* order be fixed and honored, not this one.
func BuildPopulation(totalSize int, roleWeights RoleWeights, opinionWeights OpinionWeights, backend BackendConfig, r *rng.Source) *node.Population {
	nodes := make([]*node.Node, totalSize)
	for id := 0; id < totalSize; id++ {
		switch drawRole(r, roleWeights) {
		case node.Honest:
			initial := drawOpinion(r, opinionWeights)
			switch backend.Kind {
			case ClaroBackend:
				nodes[id] = node.NewHonestClaro(node.ID(id), backend.Claro, initial)
			default:
				nodes[id] = node.NewHonestSnowball(node.ID(id), backend.Snowball, initial)
			}
		case node.Infantile:
			nodes[id] = node.NewInfantile(node.ID(id), drawOpinion(r, opinionWeights))
		case node.Random:
			nodes[id] = node.NewRandom(node.ID(id), r)
		case node.Omniscient:
			nodes[id] = node.NewOmniscient(node.ID(id))
		}
	}
	return node.NewPopulation(nodes)
}

func drawRole(r *rng.Source, w RoleWeights) node.Role {
	switch r.WeightedIndex(w[:]) {
	case 0:
		return node.Honest
	case 1:
		return node.Infantile
	case 2:
		return node.Random
	default:
		return node.Omniscient
	}
}

func drawOpinion(r *rng.Source, w OpinionWeights) vote.Opinion {
	switch r.WeightedIndex(w[:]) {
	case 0:
		return vote.OpinionYes
	case 1:
		return vote.OpinionNo
	default:
		return vote.None
	}
}
