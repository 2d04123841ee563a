package migration

import (
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Models lists every table owned by this service, in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.PushToken{},
		&domain.Session{},
		&domain.Recipe{},
		&domain.Message{},
		&domain.ShoppingList{},
		&domain.ShoppingListItem{},
		&domain.MealPlan{},
		&domain.MealPlanItem{},
	}
}

// Run executes AutoMigrate for all models. Existing tables are altered additively only.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// TableNames returns the table of every model, in migration order
func TableNames() []string {
	models := Models()
	names := make([]string, 0, len(models))
	for _, m := range models {
		if t, ok := m.(schema.Tabler); ok {
			names = append(names, t.TableName())
		}
	}
	return names
}
