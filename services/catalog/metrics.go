package catalog

import (
	"strconv"
	"strings"
	"time"
)

// Install-velocity metrics derived from the release date and the
// install counters of a detail record.

const daysPerMonth = 30.44

const releaseDateLayout = "Jan 2, 2006"

func parseReleaseDate(released string) (time.Time, bool) {
	t, err := time.Parse(releaseDateLayout, released)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseInstalls reads both the display string ("1,000,000+") and the
// numeric counters.
func parseInstalls(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		cleaned := strings.NewReplacer(",", "", "+", "").Replace(v)
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func appAge(released string, now time.Time) (int64, bool) {
	release, ok := parseReleaseDate(released)
	if !ok {
		return 0, false
	}
	days := int64(now.Sub(release).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

func dailyInstalls(installs any, released string, now time.Time) any {
	count, ok := parseInstalls(installs)
	if !ok {
		return nil
	}
	days, ok := appAge(released, now)
	if !ok {
		return nil
	}
	if days <= 0 {
		return int64(0)
	}
	return count / days
}

func monthlyInstalls(installs any, released string, now time.Time) any {
	count, ok := parseInstalls(installs)
	if !ok {
		return nil
	}
	days, ok := appAge(released, now)
	if !ok {
		return nil
	}
	months := float64(days) / daysPerMonth
	if months <= 0 {
		return int64(0)
	}
	return int64(float64(count) / months)
}

var velocityFields = []string{
	"appAge",
	"dailyInstalls", "minDailyInstalls", "realDailyInstalls",
	"monthlyInstalls", "minMonthlyInstalls", "realMonthlyInstalls",
}

// applyVelocityMetrics fills the derived metrics in place. Records
// without a parseable release date carry explicit nulls so the field
// set stays stable.
func applyVelocityMetrics(record map[string]any, now time.Time) {
	released, _ := record["released"].(string)
	if _, ok := parseReleaseDate(released); !ok {
		for _, field := range velocityFields {
			record[field] = nil
		}
		return
	}

	age, _ := appAge(released, now)
	record["appAge"] = age
	record["dailyInstalls"] = dailyInstalls(record["installs"], released, now)
	record["minDailyInstalls"] = dailyInstalls(record["minInstalls"], released, now)
	record["realDailyInstalls"] = dailyInstalls(record["realInstalls"], released, now)
	record["monthlyInstalls"] = monthlyInstalls(record["installs"], released, now)
	record["minMonthlyInstalls"] = monthlyInstalls(record["minInstalls"], released, now)
	record["realMonthlyInstalls"] = monthlyInstalls(record["realInstalls"], released, now)
}
