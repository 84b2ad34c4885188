package milestone

import "time"

// Light is the per-study status shown next to a milestone.
type Light string

const (
	Green   Light = "green"
	Yellow  Light = "yellow"
	Red     Light = "red"
	NoLight Light = "none"
)

// Classify returns the status light for one milestone. A missing target
// yields NoLight.
func Classify(actual, plan, target *time.Time, now time.Time) Light {
	if target == nil {
		return NoLight
	}
	if actual != nil {
		if actual.After(*target) {
			return Red
		}
		return Green
	}
	if now.After(*target) {
		return Red
	}
	if plan != nil && plan.After(*target) {
		return Yellow
	}
	return NoLight
}

// Bucket is the five-way cohort label used by the summary cards.
type Bucket string

const (
	Meet           Bucket = "meet"
	Miss           Bucket = "miss"
	InProgressMiss Bucket = "in_progress_miss"
	PredictedMeet  Bucket = "in_progress_predicted_meet"
	PredictedMiss  Bucket = "in_progress_predicted_miss"
	Unclassified   Bucket = ""
)

// Buckets lists the classified labels in display order.
var Buckets = []Bucket{Meet, Miss, InProgressMiss, PredictedMeet, PredictedMiss}

// Bucketize labels one milestone against an elapsed-time threshold from the
// anchor. Elapsed time is counted in whole days, so the deadline day itself is
// still open whatever its time of day. The deadline check runs before the plan
// check. A study with no actual, no plan and time still left is Unclassified.
func Bucketize(anchor, actual, plan *time.Time, threshold time.Duration, now time.Time) Bucket {
	if anchor == nil {
		return Unclassified
	}
	limit := threshold.Hours() / 24
	within := func(t time.Time) bool {
		return float64(daysBetween(*anchor, t)) <= limit
	}
	if actual != nil {
		if within(*actual) {
			return Meet
		}
		return Miss
	}
	if !within(now) {
		return InProgressMiss
	}
	if plan == nil {
		return Unclassified
	}
	if within(*plan) {
		return PredictedMeet
	}
	return PredictedMiss
}
