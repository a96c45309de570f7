package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print the decision rule reference",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(decisionDocs)
	},
}

const decisionDocs = `THE DECISION RULE

Each agent owns four domain operations:

  PredictedNeighbors(env, actions)   the neighborhood if actions applied
  PossibleActions(env)               actions the agent may propose now
  ContradictoryActions(env, actions) actions that cannot join the set
  PredictedCriticality(env, actions, agent)
                                     the agent's anticipated criticality

Criticalities are totally ordered; smaller is better; zero means no
local tension. A neighborhood's state is summarized as the bag of its
members' criticalities, compared after descending sort, highest first
(lexicographic): the rule reduces the worst criticality before the
second-worst.

ONE-STEP DECISION

Starting from the empty selection, repeat:

  1. Pick the candidate whose predicted neighborhood vector is
     lexicographically smallest (ties: first candidate in iteration
     order).
  2. If committing it would make the neighborhood strictly worse than
     the current selection, stop. Equal is accepted.
  3. Otherwise commit it and drop the candidates it contradicts.

The loop ends when the candidates run out or step 2 stops it. The
selected actions are then applied to the environment sequentially.

BOUNDED LOOKAHEAD

At search depth d > 0, a candidate is scored in a simulated future: the
candidate is applied, every predicted neighbor answers with its own
depth d-1 decision, and the agent's own depth d-1 follow-up defines the
neighborhood in which the score is taken, relative to the current
commitment level. Depth 0 is exactly the one-step rule. Cost grows
exponentially with depth; keep depth small.

DETERMINISM

Every step is a pure function of the environment and the agents'
deterministic methods. Sets iterate in insertion order, agents are
processed in lexical id order, and ties break toward the first
candidate, so a scenario always replays the same trajectory.
`
