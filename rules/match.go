package rules

import (
	"log/slog"

	"github.com/nstehr/dominion/dominion-core/model"
)

// Matches reports whether roll falls inside any entry of values. Malformed
// entries never match and are logged.
func Matches(roll int, values model.OutcomeRange) bool {
	for _, v := range values {
		if v.Malformed {
			slog.Warn("malformed match value skipped", "value", v.Raw)
			continue
		}
		if v.Contains(roll) {
			return true
		}
	}
	return false
}

// FindFirstMatch returns the first outcome, in declared order, whose values
// contain roll.
func FindFirstMatch(roll int, outcomes []model.Outcome) (*model.Outcome, bool) {
	for i := range outcomes {
		if Matches(roll, outcomes[i].Values) {
			return &outcomes[i], true
		}
	}
	return nil, false
}
