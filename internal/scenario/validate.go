package scenario

import "fmt"

// Detail records the outcome of a single validation check.
type Detail struct {
	Check    string `json:"check"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected"`
	Got      string `json:"got"`
	Fix      string `json:"fix,omitempty"`
}

// Result aggregates the validation of one scenario. Warnings do not fail
// the result.
type Result struct {
	Passed   bool     `json:"passed"`
	Message  string   `json:"message"`
	Details  []Detail `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) fail(d Detail) {
	r.Passed = false
	r.Details = append(r.Details, d)
}

// Validate checks a scenario's structural integrity: sane bounds, unique
// non-empty agent ids, values within bounds, resolvable neighbor
// references, positive round cap and non-negative depth. An asymmetric
// neighborhood is legal but surprising, so it is reported as a warning.
func (s *Scenario) Validate() *Result {
	result := &Result{Passed: true}

	if s.Depth < 0 {
		result.fail(Detail{
			Check:    "depth",
			Expected: "depth >= 0",
			Got:      fmt.Sprintf("depth %d", s.Depth),
			Fix:      "Set depth to 0 for one-step decisions or a small positive value for lookahead.",
		})
	}
	if s.MaxRounds <= 0 {
		result.fail(Detail{
			Check:    "max_rounds",
			Expected: "max_rounds > 0",
			Got:      fmt.Sprintf("max_rounds %d", s.MaxRounds),
			Fix:      "Set max_rounds to a positive round cap (or omit it for the default).",
		})
	}
	if s.Bounds != nil && s.Bounds.Min >= s.Bounds.Max {
		result.fail(Detail{
			Check:    "bounds",
			Expected: "bounds.min < bounds.max",
			Got:      fmt.Sprintf("[%d, %d]", s.Bounds.Min, s.Bounds.Max),
			Fix:      "Widen the bounds so at least two values are possible.",
		})
	}
	if len(s.Agents) == 0 {
		result.fail(Detail{
			Check:    "agents",
			Expected: "at least one agent",
			Got:      "none",
			Fix:      "Add an agents list to the scenario.",
		})
	}

	ids := make(map[string]bool, len(s.Agents))
	for _, a := range s.Agents {
		if a.ID == "" {
			result.fail(Detail{
				Check:    "agent_id",
				Expected: "non-empty agent id",
				Got:      "empty id",
				Fix:      "Give every agent a unique id.",
			})
			continue
		}
		if ids[a.ID] {
			result.fail(Detail{
				Check:    "agent_id",
				Expected: fmt.Sprintf("unique id %q", a.ID),
				Got:      "duplicate",
				Fix:      "Rename one of the duplicated agents.",
			})
		}
		ids[a.ID] = true
	}

	for _, a := range s.Agents {
		if s.Bounds != nil && (a.Value < s.Bounds.Min || a.Value > s.Bounds.Max) {
			result.fail(Detail{
				Check:    "agent_value",
				Expected: fmt.Sprintf("value in [%d, %d]", s.Bounds.Min, s.Bounds.Max),
				Got:      fmt.Sprintf("agent %q value %d", a.ID, a.Value),
				Fix:      "Move the value inside the bounds or widen the bounds.",
			})
		}
		for _, nb := range a.Neighbors {
			if !ids[nb] {
				result.fail(Detail{
					Check:    "neighbor_ref",
					Expected: fmt.Sprintf("neighbor of %q exists", a.ID),
					Got:      fmt.Sprintf("unknown id %q", nb),
					Fix:      fmt.Sprintf("Add agent %q or remove the reference.", nb),
				})
			}
			if nb == a.ID {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("agent %q lists itself as a neighbor; agents already include themselves", a.ID))
			}
		}
	}

	// Symmetry warning: a one-way link converges, but usually by accident.
	links := make(map[[2]string]bool)
	for _, a := range s.Agents {
		for _, nb := range a.Neighbors {
			links[[2]string{a.ID, nb}] = true
		}
	}
	for _, a := range s.Agents {
		for _, nb := range a.Neighbors {
			if nb != a.ID && ids[nb] && !links[[2]string{nb, a.ID}] {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("agent %q sees %q but not the other way around", a.ID, nb))
			}
		}
	}

	if result.Passed {
		result.Message = fmt.Sprintf("scenario %s valid: %d agents", s.Name, len(s.Agents))
	} else {
		result.Message = fmt.Sprintf("scenario %s invalid: %d problem(s)", s.Name, len(result.Details))
	}
	return result
}
