package billing

import (
	"fmt"
	"time"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusInactive PlanStatus = "inactive"
)

// QuotaUnlimited is the sentinel quota value meaning the plan places no
// cap on monthly description generation.
const QuotaUnlimited int64 = -1

var validCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
}

// Plan is a subscription tier in the catalog. It mirrors a product/price
// pair at the billing provider and carries the monthly description quota.
type Plan struct {
	id                uint
	name              string
	slug              string
	description       string
	price             uint64
	currency          string
	descriptionQuota  int64
	features          []string
	providerPriceID   string
	providerProductID string
	status            PlanStatus
	sortOrder         int
	createdAt         time.Time
	updatedAt         time.Time
}

func NewPlan(name, slug, description string, price uint64, currency string, descriptionQuota int64) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("plan slug is required")
	}
	if len(name) > 100 {
		return nil, fmt.Errorf("plan name too long (max 100 characters)")
	}
	if !validCurrencies[currency] {
		return nil, fmt.Errorf("invalid currency code: %s", currency)
	}
	if descriptionQuota < 0 && descriptionQuota != QuotaUnlimited {
		return nil, fmt.Errorf("invalid description quota: %d", descriptionQuota)
	}

	now := time.Now()
	return &Plan{
		name:             name,
		slug:             slug,
		description:      description,
		price:            price,
		currency:         currency,
		descriptionQuota: descriptionQuota,
		features:         []string{},
		status:           PlanStatusActive,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func ReconstructPlan(id uint, name, slug, description string, price uint64, currency string,
	descriptionQuota int64, features []string, providerPriceID, providerProductID string,
	status string, sortOrder int, createdAt, updatedAt time.Time) (*Plan, error) {

	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}

	planStatus := PlanStatus(status)
	if planStatus != PlanStatusActive && planStatus != PlanStatusInactive {
		return nil, fmt.Errorf("invalid plan status: %s", status)
	}

	if features == nil {
		features = []string{}
	}

	return &Plan{
		id:                id,
		name:              name,
		slug:              slug,
		description:       description,
		price:             price,
		currency:          currency,
		descriptionQuota:  descriptionQuota,
		features:          features,
		providerPriceID:   providerPriceID,
		providerProductID: providerProductID,
		status:            planStatus,
		sortOrder:         sortOrder,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Slug() string {
	return p.slug
}

func (p *Plan) Description() string {
	return p.description
}

func (p *Plan) Price() uint64 {
	return p.price
}

func (p *Plan) Currency() string {
	return p.currency
}

func (p *Plan) DescriptionQuota() int64 {
	return p.descriptionQuota
}

func (p *Plan) Features() []string {
	return p.features
}

func (p *Plan) ProviderPriceID() string {
	return p.providerPriceID
}

func (p *Plan) ProviderProductID() string {
	return p.providerProductID
}

func (p *Plan) Status() PlanStatus {
	return p.status
}

func (p *Plan) SortOrder() int {
	return p.sortOrder
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Plan) IsActive() bool {
	return p.status == PlanStatusActive
}

// IsUnlimited reports whether the plan has no monthly generation cap.
func (p *Plan) IsUnlimited() bool {
	return p.descriptionQuota == QuotaUnlimited
}

// RemainingQuota returns how many generations are left given the used
// count. The boolean is true when the plan is unlimited, in which case
// the count is meaningless.
func (p *Plan) RemainingQuota(used uint64) (int64, bool) {
	if p.IsUnlimited() {
		return 0, true
	}
	remaining := p.descriptionQuota - int64(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false
}

func (p *Plan) Activate() {
	if p.status == PlanStatusActive {
		return
	}
	p.status = PlanStatusActive
	p.updatedAt = time.Now()
}

func (p *Plan) Deactivate() {
	if p.status == PlanStatusInactive {
		return
	}
	p.status = PlanStatusInactive
	p.updatedAt = time.Now()
}

func (p *Plan) UpdatePrice(price uint64, currency string) error {
	if !validCurrencies[currency] {
		return fmt.Errorf("invalid currency code: %s", currency)
	}
	p.price = price
	p.currency = currency
	p.updatedAt = time.Now()
	return nil
}

// UpdateQuota changes the monthly quota. It takes effect on the next
// quota read; past usage records are never recomputed.
func (p *Plan) UpdateQuota(quota int64) error {
	if quota < 0 && quota != QuotaUnlimited {
		return fmt.Errorf("invalid description quota: %d", quota)
	}
	p.descriptionQuota = quota
	p.updatedAt = time.Now()
	return nil
}

func (p *Plan) UpdateFeatures(features []string) {
	if features == nil {
		features = []string{}
	}
	p.features = features
	p.updatedAt = time.Now()
}

func (p *Plan) SetProviderIDs(priceID, productID string) {
	p.providerPriceID = priceID
	p.providerProductID = productID
	p.updatedAt = time.Now()
}
