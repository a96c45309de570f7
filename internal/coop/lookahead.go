package coop

// Lookahead extends Agent with a configured search depth for the
// bounded-lookahead decision procedure.
type Lookahead[E any, A Action[E], C Criticality[C], G any] interface {
	Agent[E, A, C, G]

	// SearchDepth returns the depth of the decision tree explored while
	// deciding: 0 means one-step, 1 means one action from the agent
	// followed by one anticipated response from its neighbors, and so on.
	SearchDepth() int
}

// DecideLookahead runs DecideDepth at the agent's configured search
// depth.
func DecideLookahead[E any, A Action[E], C Criticality[C], G Lookahead[E, A, C, G]](ag G, env E) *ActionSet[A] {
	return DecideDepth[E, A, C, G](ag, env, ag.SearchDepth())
}

// DecideDepth selects the set of actions the agent should apply to env,
// anticipating depth levels of neighbor responses.
//
// The selection loop is the same as Decide's: grow the selected set
// while the neighborhood does not strictly worsen, pruning
// contradictions. Only the candidate scoring differs: at depth > 0 each
// candidate is evaluated in a simulated future environment rather than
// env itself. At depth 0 the procedure coincides with Decide on every
// input.
//
// The recursion multiplies candidates by neighbors at every level, so
// cost is exponential in depth. Depth is a small application-chosen
// budget; a negative depth is a programmer error.
func DecideDepth[E any, A Action[E], C Criticality[C], G Lookahead[E, A, C, G]](ag G, env E, depth int) *ActionSet[A] {
	if depth < 0 {
		panic("coop: negative search depth")
	}

	candidates := ag.PossibleActions(env)
	selected := NewActionSet[A]()

	for candidates.Len() > 0 {
		best := bestActionDepth[E, A, C, G](ag, candidates, env, selected, depth)

		trial := selected.With(best)
		if CompareVectors(neighborVector[E, A, C, G](ag, env, trial), neighborVector[E, A, C, G](ag, env, selected)) > 0 {
			break
		}

		selected = trial
		candidates = candidates.Without(best).Filter(func(a A) bool {
			return IsCompatible[E, A, C, G](ag, env, selected, a)
		})
	}

	return selected
}

// bestActionDepth scores each candidate in the environment obtained by
// applying the candidate and letting every predicted neighbor respond
// with its own depth-1 decision, then picks the lex-minimum.
//
// The scoring vector is evaluated against selected, not selected plus
// the candidate: the lookahead measures the effect of letting the world
// respond and then judges from the current commitment level. The
// asymmetry with the depth-0 path is part of the behavioral contract.
func bestActionDepth[E any, A Action[E], C Criticality[C], G Lookahead[E, A, C, G]](ag G, candidates *ActionSet[A], env E, selected *ActionSet[A], depth int) A {
	if depth == 0 {
		return BestAction[E, A, C, G](ag, candidates, env, selected)
	}
	if candidates.Len() == 0 {
		panic("coop: bestActionDepth called with empty candidate set")
	}

	var best A
	var bestVec []C
	for i, a := range candidates.Items() {
		trial := selected.With(a)
		nextEnv := a.Apply(env)

		// Anticipate one round of neighbor responses.
		predEnv := nextEnv
		for _, n := range ag.PredictedNeighbors(nextEnv, trial) {
			for _, na := range DecideDepth[E, A, C, G](n, nextEnv, depth-1).Items() {
				predEnv = na.Apply(predEnv)
			}
		}

		// The agent's own follow-up in the anticipated environment.
		ownFuture := DecideDepth[E, A, C, G](ag, predEnv, depth-1)

		futureNeighbors := ag.PredictedNeighbors(predEnv, ownFuture)
		vec := make([]C, 0, len(futureNeighbors))
		for _, n := range futureNeighbors {
			vec = append(vec, ag.PredictedCriticality(predEnv, selected, n))
		}

		if i == 0 || CompareVectors(vec, bestVec) < 0 {
			best, bestVec = a, vec
		}
	}
	return best
}
