package usecases

import "testing"

func TestQuotaWarningThreshold(t *testing.T) {
	tests := []struct {
		name     string
		prev     int
		now      int
		used     uint64
		step     int
		wantPct  int
		wantWarn bool
	}{
		{"well below thresholds", 10, 12, 6, 10, 0, false},
		{"crosses 100", 98, 100, 50, 10, 100, true},
		{"jumps past 100", 85, 102, 51, 10, 100, true},
		{"crosses 90", 88, 92, 46, 10, 90, true},
		{"exactly 90", 89, 90, 45, 10, 90, true},
		{"80 on count multiple", 78, 80, 40, 10, 80, true},
		{"83 count not a multiple", 82, 83, 83, 10, 0, false},
		{"85 with step 5", 84, 85, 85, 5, 85, true},
		{"large quota same percent still steps on count", 82, 82, 830, 10, 82, true},
		{"large quota off-step count stays quiet", 82, 82, 827, 10, 0, false},
		{"already past 100 stays quiet", 100, 100, 51, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, warn := QuotaWarningThreshold(tt.prev, tt.now, tt.used, tt.step)
			if warn != tt.wantWarn {
				t.Errorf("warn = %v, want %v", warn, tt.wantWarn)
			}
			if warn && pct != tt.wantPct {
				t.Errorf("percent = %v, want %v", pct, tt.wantPct)
			}
		})
	}
}
