package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// ConsoleFormatter renders a human-readable summary for terminal output.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "RETIREMENT SIMULATION RESULTS\n")
	fmt.Fprintf(&b, "=============================\n\n")
	fmt.Fprintf(&b, "Run ID:      %s\n", result.RunID)
	fmt.Fprintf(&b, "Seed:        %d\n", result.Seed)
	fmt.Fprintf(&b, "Paths:       %d\n", result.NumPaths)
	fmt.Fprintf(&b, "Horizon:     %d-%d (%d years)\n\n",
		result.Timeline.StartYear, result.Timeline.EndYear, result.Timeline.Years)

	pct := result.SuccessRate.Mul(decimal.NewFromInt(100))
	fmt.Fprintf(&b, "Success rate:  %s%%\n", pct.StringFixed(1))
	fmt.Fprintf(&b, "Failed paths:  %d\n", result.FailedPaths)
	if result.MedianFailure > 0 {
		fmt.Fprintf(&b, "Median failure year: %d\n", result.MedianFailure)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Final balance distribution\n")
	fmt.Fprintf(&b, "  10th percentile:  %s\n", money(result.FinalBalances.P10))
	fmt.Fprintf(&b, "  25th percentile:  %s\n", money(result.FinalBalances.P25))
	fmt.Fprintf(&b, "  Median:           %s\n", money(result.FinalBalances.P50))
	fmt.Fprintf(&b, "  75th percentile:  %s\n", money(result.FinalBalances.P75))
	fmt.Fprintf(&b, "  90th percentile:  %s\n", money(result.FinalBalances.P90))
	b.WriteString("\n")

	if len(result.Trajectory) > 0 {
		fmt.Fprintf(&b, "Trajectory (median total assets)\n")
		fmt.Fprintf(&b, "%-6s  %-5s  %-16s  %-16s  %-16s\n", "Year", "Age", "P10", "Median", "P90")
		step := len(result.Trajectory) / 10
		if step < 1 {
			step = 1
		}
		for i := 0; i < len(result.Trajectory); i += step {
			yp := result.Trajectory[i]
			fmt.Fprintf(&b, "%-6d  %-5d  %-16s  %-16s  %-16s\n",
				yp.Year, yp.Age1, money(yp.Bands.P10), money(yp.Bands.P50), money(yp.Bands.P90))
		}
		b.WriteString("\n")
	}

	if len(result.RMDSchedule) > 0 {
		fmt.Fprintf(&b, "Projected required distributions (expected returns)\n")
		fmt.Fprintf(&b, "%-6s  %-5s  %-16s  %-8s  %-16s\n", "Year", "Age", "Bucket", "Divisor", "Amount")
		for _, rmd := range result.RMDSchedule {
			fmt.Fprintf(&b, "%-6d  %-5d  %-16s  %-8s  %-16s\n",
				rmd.Year, rmd.Age, rmd.BucketType, rmd.Divisor.StringFixed(1), money(rmd.Amount))
		}
		b.WriteString("\n")
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", w)
	}

	return []byte(b.String()), nil
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
