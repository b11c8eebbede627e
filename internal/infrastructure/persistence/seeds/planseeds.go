package seeds

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"listcraft/internal/infrastructure/persistence/models"
)

// SeedPlans seeds the plan catalog with the default tiers. Provider price
// and product ids are left empty; operators fill them in after creating
// the matching objects on the billing provider.
func SeedPlans(db *gorm.DB) error {
	plans := []models.PlanModel{
		{
			Name:             "Basic",
			Slug:             "basic",
			Description:      "Perfect for individual agents",
			Price:            2900,
			Currency:         "USD",
			DescriptionQuota: 50,
			Features: datatypes.JSON(`["50 descriptions per month",` +
				`"All property types",` +
				`"Multiple tone options",` +
				`"Email support",` +
				`"Copy & save descriptions"]`),
			Status:    "active",
			SortOrder: 1,
		},
		{
			Name:             "Pro",
			Slug:             "pro",
			Description:      "Great for small agencies",
			Price:            7900,
			Currency:         "USD",
			DescriptionQuota: 200,
			Features: datatypes.JSON(`["200 descriptions per month",` +
				`"All property types",` +
				`"Multiple tone options",` +
				`"Priority email support",` +
				`"Copy & save descriptions",` +
				`"Advanced customization"]`),
			Status:    "active",
			SortOrder: 2,
		},
		{
			Name:             "Agency",
			Slug:             "agency",
			Description:      "For large agencies and teams",
			Price:            19900,
			Currency:         "USD",
			DescriptionQuota: -1,
			Features: datatypes.JSON(`["Unlimited descriptions",` +
				`"All property types",` +
				`"Multiple tone options",` +
				`"24/7 priority support",` +
				`"Copy & save descriptions",` +
				`"Advanced customization",` +
				`"Team collaboration",` +
				`"API access"]`),
			Status:    "active",
			SortOrder: 3,
		},
	}

	for _, plan := range plans {
		if err := db.FirstOrCreate(&plan, models.PlanModel{
			Slug: plan.Slug,
		}).Error; err != nil {
			return err
		}
	}

	return nil
}
