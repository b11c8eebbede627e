package billing

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrSubscriptionInactive = errors.New("subscription inactive")
	ErrPlanNotFound         = errors.New("billing plan not found")
	ErrPlanInactive         = errors.New("billing plan inactive")
	ErrPlanSlugExists       = errors.New("plan slug already exists")
	ErrQuotaExceeded        = errors.New("description quota exceeded")
	ErrUsageRecordNotFound  = errors.New("usage record not found")
)
