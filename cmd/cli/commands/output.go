package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// printRoster prints one row per date with the shifts of that day
func printRoster(assignments []roster.Assignment) {
	if len(assignments) == 0 {
		fmt.Printf("%sNo assignments.%s\n\n", colorDim, colorReset)
		return
	}

	byDate := map[string][]roster.Assignment{}
	var dates []string
	for _, a := range assignments {
		if _, ok := byDate[a.Date]; !ok {
			dates = append(dates, a.Date)
		}
		byDate[a.Date] = append(byDate[a.Date], a)
	}
	sort.Strings(dates)

	fmt.Printf("%s%-12s %s%s\n", colorBold, "Date", "Assignments", colorReset)
	fmt.Println(strings.Repeat("-", 72))
	for _, date := range dates {
		var cells []string
		for _, a := range byDate[date] {
			cell := fmt.Sprintf("%s/%s: %s", a.Role, a.ShiftCode, a.PersonID)
			if a.Pinned {
				cell = fmt.Sprintf("%s%s*%s", colorYellow, cell, colorReset)
			}
			cells = append(cells, cell)
		}
		fmt.Printf("%-12s %s\n", date, strings.Join(cells, "  "))
	}
	fmt.Printf("\n%s* pinned%s\n\n", colorDim, colorReset)
}

// printHours prints assigned hours per person, most first
func printHours(hours map[string]float64) {
	if len(hours) == 0 {
		return
	}
	ids := make([]string, 0, len(hours))
	for id := range hours {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if hours[ids[i]] != hours[ids[j]] {
			return hours[ids[i]] > hours[ids[j]]
		}
		return ids[i] < ids[j]
	})

	fmt.Printf("⏱  Hours per person:\n")
	for _, id := range ids {
		fmt.Printf("  %-20s %6.1f\n", id, hours[id])
	}
	fmt.Println()
}

func printIssues(issues []roster.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Printf("%s⚠️  Unmet demand (%d):%s\n", colorRed, len(issues), colorReset)
	for _, is := range issues {
		fmt.Printf("  • %s %-14s missing %d: %s\n", is.Date, is.ShiftID, is.Missing, is.Reason)
	}
	fmt.Println()
}

func printOverrides(overrides []roster.Override) {
	if len(overrides) == 0 {
		return
	}
	fmt.Printf("%sOverrides (%d):%s\n", colorYellow, len(overrides), colorReset)
	for _, o := range overrides {
		fmt.Printf("  • %s %s %s/%s: %s\n", o.Date, o.PersonID, o.Role, o.ShiftCode, o.Reason)
	}
	fmt.Println()
}

func printViolations(violations []roster.Violation) {
	if len(violations) == 0 {
		fmt.Printf("%s✓ No hard rule violations%s\n\n", colorGreen, colorReset)
		return
	}
	fmt.Printf("%s❌ Hard rule violations (%d):%s\n", colorRed, len(violations), colorReset)
	for _, v := range violations {
		fmt.Printf("  • %s %s %s/%s: %s\n",
			v.Assignment.Date, v.Assignment.PersonID, v.Assignment.Role, v.Assignment.ShiftCode, v.Rule)
	}
	fmt.Println()
}

func printWarnings(title string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("%s%s (%d):%s\n", colorDim, title, len(warnings), colorReset)
	for _, w := range warnings {
		fmt.Printf("  • %s\n", w)
	}
	fmt.Println()
}

func statusColor(status string) string {
	switch roster.Status(status) {
	case roster.StatusComplete:
		return colorGreen
	case roster.StatusFallback, roster.StatusPartial:
		return colorYellow
	default:
		return colorRed
	}
}
