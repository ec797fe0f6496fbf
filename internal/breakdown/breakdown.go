// Package breakdown converts a task and a day count into percentage-staged
// sub-task labels.
package breakdown

import (
	"fmt"

	"github.com/alexanderramin/wbshub/internal/domain"
)

// MaxDays is the largest day count that still yields strictly increasing
// whole-number percentages.
const MaxDays = 100

// Stage is one percentage step of a task.
type Stage struct {
	Label      string
	Percentage int
}

// Percentages returns round(100*k/days) for k = 1..days, rounding halves up.
// The last value is always 100.
func Percentages(days int) ([]int, error) {
	if days < 1 || days > MaxDays {
		return nil, &domain.InvalidDaysError{Days: days, Max: MaxDays}
	}

	out := make([]int, days)
	for k := 1; k <= days; k++ {
		// floor(100k/n + 1/2) in integer arithmetic.
		out[k-1] = (200*k + days) / (2 * days)
	}
	return out, nil
}

// Breakdown stages taskLabel over days, producing labels of the form
// "<taskLabel> - <pct>%" in increasing percentage order.
func Breakdown(taskLabel string, days int) ([]Stage, error) {
	if days < 1 || days > MaxDays {
		return nil, &domain.InvalidDaysError{Task: taskLabel, Days: days, Max: MaxDays}
	}
	pcts, err := Percentages(days)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, 0, len(pcts))
	for _, p := range pcts {
		stages = append(stages, Stage{
			Label:      FormatLabel(taskLabel, p),
			Percentage: p,
		})
	}
	return stages, nil
}

// FormatLabel appends the percentage suffix to a label.
func FormatLabel(label string, pct int) string {
	return fmt.Sprintf("%s - %d%%", label, pct)
}
