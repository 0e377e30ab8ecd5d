package main

import (
	"log"
	"os"

	"allnimall-store-be/internal/model"
	"allnimall-store-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Subscription Plans...")
	seedPlans(db)

	log.Println("Seeding Feature Flags...")
	seedFlags(db)

	log.Println("Seeding completed!")
}

func seedPlans(db *gorm.DB) {
	plans := []model.SubscriptionPlan{
		{
			Name:         "Free",
			Slug:         "free",
			Description:  "For single-store pet shops getting started",
			Price:        0,
			BillingCycle: "monthly",
			Features:     datatypes.NewJSONSlice([]string{"stores", "products", "customers"}),
			Limits: datatypes.NewJSONType(map[string]int{
				"stores":    1,
				"products":  50,
				"customers": 100,
			}),
			Restrictions: datatypes.NewJSONType(map[string]bool{
				"advanced_reports": false,
				"api_access":       false,
			}),
			TrialDays: 0,
			IsActive:  true,
			SortOrder: 1,
		},
		{
			Name:         "Pro",
			Slug:         "pro",
			Description:  "For growing shops with multiple branches",
			Price:        99000,
			BillingCycle: "monthly",
			Features:     datatypes.NewJSONSlice([]string{"stores", "products", "customers", "advanced_reports"}),
			Limits: datatypes.NewJSONType(map[string]int{
				"stores":    10,
				"products":  5000,
				"customers": 10000,
			}),
			Restrictions: datatypes.NewJSONType(map[string]bool{
				"advanced_reports": true,
				"api_access":       false,
			}),
			TrialDays: 14,
			IsActive:  true,
			SortOrder: 2,
		},
		{
			Name:         "Enterprise",
			Slug:         "enterprise",
			Description:  "Unlimited usage for franchises and chains",
			Price:        299000,
			BillingCycle: "monthly",
			Features:     datatypes.NewJSONSlice([]string{"stores", "products", "customers", "advanced_reports", "api_access"}),
			Limits: datatypes.NewJSONType(map[string]int{
				"stores":    -1,
				"products":  -1,
				"customers": -1,
			}),
			Restrictions: datatypes.NewJSONType(map[string]bool{
				"advanced_reports": true,
				"api_access":       true,
			}),
			TrialDays: 14,
			IsActive:  true,
			SortOrder: 3,
		},
	}

	for _, p := range plans {
		var existing model.SubscriptionPlan
		if err := db.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			log.Printf("Plan '%s' already exists, skipping...", p.Slug)
			continue
		}

		if err := db.Create(&p).Error; err != nil {
			log.Printf("Error creating plan '%s': %v", p.Slug, err)
		} else {
			log.Printf("Created plan: %s", p.Name)
		}
	}
}

func seedFlags(db *gorm.DB) {
	// Defaults (plan_id NULL) apply to every plan without an override.
	flags := []model.FeatureFlag{
		{FeatureName: "stores", Enabled: true, UsageLimit: 1, ResetPeriod: "monthly", Description: "Store locations", Category: "core", IsCoreFeature: true},
		{FeatureName: "products", Enabled: true, UsageLimit: 50, ResetPeriod: "monthly", Description: "Product catalog entries", Category: "core", IsCoreFeature: true},
		{FeatureName: "customers", Enabled: true, UsageLimit: 100, ResetPeriod: "monthly", Description: "Customer records", Category: "core", IsCoreFeature: true},
		{FeatureName: "advanced_reports", Enabled: false, UsageLimit: 0, Description: "Sales and inventory analytics", Category: "reporting"},
		{FeatureName: "api_access", Enabled: false, UsageLimit: 0, Description: "Public API access", Category: "integration"},
	}

	for _, f := range flags {
		var existing model.FeatureFlag
		if err := db.Where("feature_name = ? AND plan_id IS NULL", f.FeatureName).First(&existing).Error; err == nil {
			log.Printf("Flag '%s' already exists, skipping...", f.FeatureName)
			continue
		}

		if err := db.Create(&f).Error; err != nil {
			log.Printf("Error creating flag '%s': %v", f.FeatureName, err)
		} else {
			log.Printf("Created flag: %s", f.FeatureName)
		}
	}
}
