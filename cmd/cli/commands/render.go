package commands

import (
	"fmt"
	"strings"

	"github.com/jakechorley/weekend-shifts/pkg/core/allocator"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorBold   = "\033[1m"
)

// distributionOrder is the display order of the rank distribution buckets
var distributionOrder = []string{
	allocator.BucketTop3,
	allocator.BucketTop6,
	allocator.BucketTop9,
	allocator.BucketTop12,
	allocator.BucketLower,
	allocator.BucketBottom,
	allocator.BucketUnranked,
}

// statusColor picks the display color for an employee status
func statusColor(status allocator.EmployeeStatus, green, yellow, red string) string {
	switch status {
	case allocator.StatusGreat, allocator.StatusGood:
		return green
	case allocator.StatusGotBottom:
		return red
	}
	return yellow
}

// formatRanks joins rank labels, e.g. "#1, BOTTOM"
func formatRanks(ranks []allocator.ShiftRank) string {
	if len(ranks) == 0 {
		return "—"
	}

	labels := make([]string, 0, len(ranks))
	for _, r := range ranks {
		labels = append(labels, fmt.Sprintf("%s (shift %d)", r.Label, r.ShiftID))
	}
	return strings.Join(labels, ", ")
}

// formatAverage renders an average rank, or "—" when no shift came from the top list
func formatAverage(result allocator.EmployeeResult) string {
	if !result.HasAverageRank() {
		return "—"
	}
	return fmt.Sprintf("%.1f", result.AverageRank)
}

func printSummary(summary allocator.Summary, names map[string]string) {
	fmt.Printf("%s%-24s  %-7s  %-10s  %s%s\n", colorBold, "Employee", "Avg", "Status", "Shifts", colorReset)
	fmt.Println(strings.Repeat("-", 24) + "  " + strings.Repeat("-", 7) + "  " + strings.Repeat("-", 10) + "  " + strings.Repeat("-", 30))

	for _, result := range summary.Employees {
		name := result.EmployeeID
		if n := names[result.EmployeeID]; n != "" {
			name = n
		}
		color := statusColor(result.Status, colorGreen, colorYellow, colorRed)
		fmt.Printf("%-24s  %-7s  %s%-10s%s  %s\n",
			name,
			formatAverage(result),
			color, result.Status, colorReset,
			formatRanks(result.Ranks))
	}
	fmt.Println()

	fmt.Printf("📊 Summary:\n")
	fmt.Printf("  Employees:        %d\n", summary.TotalEmployees)
	fmt.Printf("  Fully assigned:   %d\n", summary.FullyAssigned)
	fmt.Printf("  Both from top:    %d\n", summary.BothFromTop)
	fmt.Printf("  One from top:     %d\n", summary.OneFromTop)
	fmt.Printf("  Got a bottom:     %d\n", summary.GotBottom)
	fmt.Printf("  Average rank:     %.2f\n", summary.OverallAverageRank)
	fmt.Printf("  Vacant shifts:    %d\n", len(summary.VacantShifts))
	fmt.Println()

	fmt.Printf("  Rank distribution:\n")
	for _, bucket := range distributionOrder {
		if count := summary.RankDistribution[bucket]; count > 0 {
			fmt.Printf("    %-9s %s %d\n", bucket, strings.Repeat("█", count), count)
		}
	}
	fmt.Println()
}
