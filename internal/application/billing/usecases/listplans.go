package usecases

import (
	"context"
	"sort"

	"listcraft/internal/domain/billing"
)

// PlanDTO is the public catalog entry.
type PlanDTO struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	Price            uint64   `json:"price"`
	Currency         string   `json:"currency"`
	DescriptionQuota int64    `json:"description_quota"`
	Unlimited        bool     `json:"unlimited"`
	Features         []string `json:"features"`
}

// ListPlansUseCase returns the active plan catalog in display order.
type ListPlansUseCase struct {
	planRepo billing.PlanRepository
}

func NewListPlansUseCase(planRepo billing.PlanRepository) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]PlanDTO, error) {
	plans, err := uc.planRepo.GetActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].SortOrder() < plans[j].SortOrder()
	})

	dtos := make([]PlanDTO, 0, len(plans))
	for _, p := range plans {
		dtos = append(dtos, PlanDTO{
			ID:               p.ID(),
			Name:             p.Name(),
			Slug:             p.Slug(),
			Description:      p.Description(),
			Price:            p.Price(),
			Currency:         p.Currency(),
			DescriptionQuota: p.DescriptionQuota(),
			Unlimited:        p.IsUnlimited(),
			Features:         p.Features(),
		})
	}
	return dtos, nil
}
