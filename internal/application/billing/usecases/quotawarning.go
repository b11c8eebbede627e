package usecases

// QuotaWarningThreshold decides whether the generation that moved usage
// from prevPercent to newPercent (reaching used generations) should
// trigger a quota warning, and which threshold to report. Crossing 100%
// or 90% always warns. Between 80% and 90% warnings fire only when the
// usage count is a multiple of step, so a large quota does not mail the
// user on every generation.
func QuotaWarningThreshold(prevPercent, newPercent int, used uint64, step int) (int, bool) {
	if prevPercent < 100 && newPercent >= 100 {
		return 100, true
	}
	if prevPercent < 90 && newPercent >= 90 {
		return 90, true
	}
	if step <= 0 {
		step = 10
	}
	if newPercent >= 80 && newPercent < 90 && used%uint64(step) == 0 {
		return newPercent, true
	}
	return 0, false
}
