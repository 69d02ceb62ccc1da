package seed

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"notes-service/internal/model"
	"notes-service/pkg/password"
)

// Demo creates two free-plan tenants with an admin and a member each, for
// local development and manual testing. It is idempotent: existing rows are
// left alone. All accounts share the password "password"; never enable the
// seed in production.
func Demo(db *gorm.DB, log *zap.Logger) error {
	tenants := []model.Tenant{
		{Slug: "acme", Name: "Acme", Plan: model.PlanFree},
		{Slug: "globex", Name: "Globex", Plan: model.PlanFree},
	}

	hashed, err := password.Hash("password")
	if err != nil {
		return err
	}

	for i := range tenants {
		t := &tenants[i]
		if err := db.Where(model.Tenant{Slug: t.Slug}).FirstOrCreate(t).Error; err != nil {
			return err
		}

		users := []model.User{
			{Email: "admin@" + t.Slug + ".test", Role: model.RoleAdmin, TenantID: t.ID, Password: hashed},
			{Email: "user@" + t.Slug + ".test", Role: model.RoleMember, TenantID: t.ID, Password: hashed},
		}
		for j := range users {
			u := &users[j]
			if err := db.Where(model.User{Email: u.Email}).FirstOrCreate(u).Error; err != nil {
				return err
			}
		}

		log.Info("Demo tenant ready", zap.String("slug", t.Slug))
	}

	return nil
}
