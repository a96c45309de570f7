package valuesync

import "github.com/tomjorquera/flock/internal/coop"

// Criticality is the local tension of an agent: the largest distance
// between its value and a neighbor's, normalized by the widest possible
// gap. Zero means the agent is level with its whole neighborhood.
type Criticality float64

// Compare orders criticalities; smaller is better.
func (c Criticality) Compare(other Criticality) int {
	switch {
	case c < other:
		return -1
	case c > other:
		return 1
	default:
		return 0
	}
}

// Node is a value-synchronization agent. Nodes are stateless: the
// neighborhood is fixed at construction and every mutable quantity lives
// in the Env.
type Node struct {
	id        string
	neighbors []string
	depth     int

	incr Action
	decr Action
}

// NewNode builds an agent with the given id, neighbor ids and lookahead
// search depth. The agent adds itself to its own neighborhood: its own
// criticality is part of its objective.
func NewNode(id string, neighbors []string, depth int) *Node {
	n := &Node{
		id:        id,
		neighbors: append(append([]string{}, neighbors...), id),
		depth:     depth,
		incr:      Action{Kind: Increase, AgentID: id},
		decr:      Action{Kind: Decrease, AgentID: id},
	}
	return n
}

// ID returns the unique id of the agent.
func (n *Node) ID() string {
	return n.id
}

// SearchDepth returns the configured lookahead depth.
func (n *Node) SearchDepth() int {
	return n.depth
}

// PredictedNeighbors resolves the static neighborhood against the
// environment. The topology does not depend on the actions.
func (n *Node) PredictedNeighbors(env Env, actions *coop.ActionSet[Action]) []*Node {
	out := make([]*Node, 0, len(n.neighbors))
	for _, id := range n.neighbors {
		out = append(out, env.Node(id))
	}
	return out
}

// PossibleActions returns the moves available to the agent: each of the
// two moves is possible only while the value is off the corresponding
// bound.
func (n *Node) PossibleActions(env Env) *coop.ActionSet[Action] {
	v := env.Value(n.id)
	b := env.Bounds()

	possible := coop.NewActionSet[Action]()
	if v < b.Max {
		possible.Add(n.incr)
	}
	if v > b.Min {
		possible.Add(n.decr)
	}
	return possible
}

// ContradictoryActions marks the two moves as mutually exclusive: once
// one is selected, the other is ruled out.
func (n *Node) ContradictoryActions(env Env, selected *coop.ActionSet[Action]) *coop.ActionSet[Action] {
	contradictory := coop.NewActionSet[Action]()
	if selected.Contains(n.incr) {
		contradictory.Add(n.decr)
	}
	if selected.Contains(n.decr) {
		contradictory.Add(n.incr)
	}
	return contradictory
}

// PredictedCriticality anticipates an agent's criticality by applying
// the selected actions to the environment and evaluating the agent
// there.
func (n *Node) PredictedCriticality(env Env, selected *coop.ActionSet[Action], agent *Node) Criticality {
	return agent.Criticality(coop.Act(env, selected))
}

// Criticality returns the agent's current criticality: the largest
// distance to a neighbor divided by the widest possible gap.
func (n *Node) Criticality(env Env) Criticality {
	value := env.Value(n.id)
	b := env.Bounds()

	maxDist := 0
	for _, id := range n.neighbors {
		dist := value - env.Value(id)
		if dist < 0 {
			dist = -dist
		}
		if dist > maxDist {
			maxDist = dist
		}
	}

	return Criticality(float64(maxDist) / float64(b.Max-b.Min))
}

// Decision selects the agent's next actions in env at its configured
// search depth.
func Decision(n *Node, env Env) *coop.ActionSet[Action] {
	return coop.DecideLookahead[Env, Action, Criticality, *Node](n, env)
}

// DecisionDepth selects the agent's next actions in env at an explicit
// search depth.
func DecisionDepth(n *Node, env Env, depth int) *coop.ActionSet[Action] {
	return coop.DecideDepth[Env, Action, Criticality, *Node](n, env, depth)
}
