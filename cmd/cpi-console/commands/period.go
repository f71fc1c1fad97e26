package commands

import (
	"fmt"

	"cpi-console/internal/period"

	"github.com/spf13/cobra"
)

type periodFlags struct {
	months int
	start  string
	end    string
	strict bool
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.months, "months", period.DefaultMonths, "analyze the most recent N months")
	cmd.Flags().StringVar(&p.start, "start", "", "range start (YYYY-MM); requires --end")
	cmd.Flags().StringVar(&p.end, "end", "", "range end (YYYY-MM); requires --start")
	cmd.Flags().BoolVar(&p.strict, "strict", false, "reject empty or inverted periods before contacting the service")
	cmd.MarkFlagsRequiredTogether("start", "end")
	cmd.MarkFlagsMutuallyExclusive("months", "start")
}

// selection builds the period from the flags. Without --strict, nonsensical
// periods are sent as-is and the service reports the error.
func (p *periodFlags) selection() (period.Selection, error) {
	sel := period.Months(p.months)
	if p.start != "" {
		start, err := period.ParseYearMonth(p.start)
		if err != nil {
			return period.Selection{}, fmt.Errorf("--start: %w", err)
		}
		end, err := period.ParseYearMonth(p.end)
		if err != nil {
			return period.Selection{}, fmt.Errorf("--end: %w", err)
		}
		sel = period.Between(start, end)
	}
	if p.strict {
		if err := sel.Validate(); err != nil {
			return period.Selection{}, err
		}
	}
	return sel, nil
}
