// Package coop is a cooperative multi-agent decision kernel.
//
// Agents are pure decision functions over an immutable environment: given
// the current environment, an agent selects the conflict-free set of
// actions that minimizes the worst predicted criticality in its
// neighborhood, using a lexicographic comparison of the neighbors'
// anticipated criticalities. All mutable state lives in the environment;
// applying the selected actions replaces the environment with a new one.
//
// The kernel is generic over four domain types: the environment E, the
// action type A (a pure E -> E transformation with value identity), the
// criticality measure C (totally ordered, smaller is better) and the
// concrete agent type G. An application implements the Agent contract
// (and optionally Lookahead) and gets the decision procedures Decide,
// DecideDepth and DecideLookahead for free.
package coop

// Action is the constraint on domain action types: a pure transformation
// of the environment. Actions are placed in sets and used as map keys,
// so they must be comparable values.
type Action[E any] interface {
	comparable
	Apply(E) E
}

// Criticality is the constraint on domain criticality types: a totally
// ordered measure of local tension. Smaller is better; zero
// conventionally means no tension.
type Criticality[C any] interface {
	// Compare returns a negative value if the receiver is lower than
	// other, zero if equal, positive if higher.
	Compare(other C) int
}

// Agent is the contract a domain agent fulfills to use the one-step
// decision procedure. G is the concrete agent type itself, so that
// neighborhoods are typed without erasure.
//
// Agents must be stateless and their methods deterministic: a decision
// is a pure function of the environment. Mutable state belongs in E.
type Agent[E any, A Action[E], C Criticality[C], G any] interface {
	// PredictedNeighbors returns the agents that would constitute this
	// agent's neighborhood if actions were applied. The result should
	// include the agent itself whenever its own criticality is part of
	// its objective. For static topologies the result is independent of
	// actions.
	PredictedNeighbors(env E, actions *ActionSet[A]) []G

	// PossibleActions returns the actions the agent may propose in env.
	PossibleActions(env E) *ActionSet[A]

	// ContradictoryActions returns the actions that cannot coexist with
	// any member of selected in one selected set.
	ContradictoryActions(env E, selected *ActionSet[A]) *ActionSet[A]

	// PredictedCriticality estimates the criticality of agent after
	// selected is applied to env.
	PredictedCriticality(env E, selected *ActionSet[A], agent G) C
}

// Decide selects the set of actions the agent should apply to env.
//
// The selected set is grown greedily: each iteration picks the candidate
// whose predicted neighborhood criticality vector is lexicographically
// smallest (BestAction), stops if adding it would strictly worsen the
// neighborhood relative to the current selection, and otherwise commits
// it and prunes the candidates that became contradictory. A candidate
// whose vector equals the current one is accepted: a non-worsening
// action may still unlock useful combinations later.
//
// The empty set is a legal result; it is returned immediately when the
// agent has no possible actions.
func Decide[E any, A Action[E], C Criticality[C], G Agent[E, A, C, G]](ag G, env E) *ActionSet[A] {
	candidates := ag.PossibleActions(env)
	selected := NewActionSet[A]()

	for candidates.Len() > 0 {
		best := BestAction[E, A, C, G](ag, candidates, env, selected)

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

// BestAction returns the candidate whose predicted neighborhood
// criticality vector, evaluated with the candidate added to selected, is
// lexicographically smallest. Ties go to the first candidate encountered
// in the set's iteration order.
//
// Calling BestAction with an empty candidate set is a programmer error;
// the decision loops guard against it.
func BestAction[E any, A Action[E], C Criticality[C], G Agent[E, A, C, G]](ag G, candidates *ActionSet[A], env E, selected *ActionSet[A]) A {
	if candidates.Len() == 0 {
		panic("coop: BestAction called with empty candidate set")
	}

	var best A
	var bestVec []C
	for i, a := range candidates.Items() {
		vec := neighborVector[E, A, C, G](ag, env, selected.With(a))
		if i == 0 || CompareVectors(vec, bestVec) < 0 {
			best, bestVec = a, vec
		}
	}
	return best
}

// IsCompatible reports whether action a may join the selected set, i.e.
// whether it is absent from the selected set's contradictions.
func IsCompatible[E any, A Action[E], C Criticality[C], G Agent[E, A, C, G]](ag G, env E, selected *ActionSet[A], a A) bool {
	return !ag.ContradictoryActions(env, selected).Contains(a)
}

// Act applies each action in actions to env sequentially and returns the
// resulting environment. Applying the empty set returns env unchanged.
func Act[E any, A Action[E]](env E, actions *ActionSet[A]) E {
	for _, a := range actions.Items() {
		env = a.Apply(env)
	}
	return env
}

// CurrentCriticality returns the agent's own criticality in env, i.e.
// its predicted criticality under the empty action set.
func CurrentCriticality[E any, A Action[E], C Criticality[C], G Agent[E, A, C, G]](ag G, env E) C {
	return ag.PredictedCriticality(env, NewActionSet[A](), ag)
}

// neighborVector maps the agent's predicted neighborhood under selected
// to the neighbors' predicted criticalities.
func neighborVector[E any, A Action[E], C Criticality[C], G Agent[E, A, C, G]](ag G, env E, selected *ActionSet[A]) []C {
	neighbors := ag.PredictedNeighbors(env, selected)
	vec := make([]C, 0, len(neighbors))
	for _, n := range neighbors {
		vec = append(vec, ag.PredictedCriticality(env, selected, n))
	}
	return vec
}
