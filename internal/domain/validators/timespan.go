package validators

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/models"
)

// timeSpanPattern matches the [d.]hh:mm:ss time span format the Octo CLI accepts for timeouts
var timeSpanPattern = regexp.MustCompile(`^(?:(\d+)\.)?(\d{1,2}):(\d{2}):(\d{2})$`)

const invalidTimeSpanMessage = "Please enter a valid time span, e.g. 00:10:00."

// maxTimeSpanDays is the largest day count whose time span, with any time of day added, still fits in a
// time.Duration
const maxTimeSpanDays = int(math.MaxInt64/int64(24*time.Hour)) - 1

// ParseTimeSpan converts a [d.]hh:mm:ss time span into a duration
func ParseTimeSpan(value string) (time.Duration, error) {
	match := timeSpanPattern.FindStringSubmatch(strings.TrimSpace(value))

	if match == nil {
		return 0, fmt.Errorf("%q is not a time span in the format [d.]hh:mm:ss", value)
	}

	days := 0
	if match[1] != "" {
		var err error
		days, err = strconv.Atoi(match[1])

		if err != nil {
			return 0, fmt.Errorf("%q has an invalid number of days: %w", value, err)
		}

		if days > maxTimeSpanDays {
			return 0, fmt.Errorf("%q is out of range, the number of days must not exceed %d", value, maxTimeSpanDays)
		}
	}

	// The patterns only match digits, so these conversions can not fail
	hours, _ := strconv.Atoi(match[2])
	minutes, _ := strconv.Atoi(match[3])
	seconds, _ := strconv.Atoi(match[4])

	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%q is out of range, hours must be less than 24 and minutes and seconds less than 60", value)
	}

	return time.Duration(days)*24*time.Hour +
		time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second, nil
}

// ValidateTimeSpan accepts an empty value, or a value ParseTimeSpan understands
func ValidateTimeSpan(value string) models.ValidationResult {
	if strings.TrimSpace(value) == "" {
		return models.Ok()
	}

	if _, err := ParseTimeSpan(value); err != nil {
		return models.Error(invalidTimeSpanMessage)
	}

	return models.Ok()
}
