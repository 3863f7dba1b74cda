package schedule

import "time"

// baseDueDay picks the recurring due day from the issue date: the 15th for
// issues in the first half of the month, the 30th otherwise.
func baseDueDay(issue time.Time) int {
	if issue.Day() <= 15 {
		return 15
	}

	return 30
}

// firstDueDate places the first due date on the 15th or 30th of the issue
// month, or of the following month under RuleNextHalf, clamped to shorter
// months.
func firstDueDate(issue time.Time, rule DueDateRule) time.Time {
	year, month := issue.Year(), issue.Month()
	if rule == RuleNextHalf {
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return clampedDate(year, month, baseDueDay(issue), issue.Location())
}

// addMonthKeepBaseDay advances one calendar month preserving the base day,
// so a clamped February date returns to the 30th in March.
func addMonthKeepBaseDay(t time.Time, baseDay int) time.Time {
	year, month := t.Year(), t.Month()
	month++
	if month > time.December {
		month = time.January
		year++
	}

	return clampedDate(year, month, baseDay, t.Location())
}

func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
