package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrackhq/fintrack/internal/auth"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with baseline data",
	Long:  `Seed the database with roles, an admin account and its starter categories.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGormDB(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		roles := []struct {
			ID   int64
			Name string
		}{
			{auth.RoleIDUser, auth.RoleUser},
			{auth.RoleIDAdmin, auth.RoleAdmin},
		}

		for _, role := range roles {
			var exists int
			row := db.Raw("SELECT 1 FROM roles WHERE id = ?", role.ID).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO roles (id, name) VALUES (?, ?)", role.ID, role.Name).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", role.Name, err)
			}
			fmt.Println("Seeded role:", role.Name)
		}

		adminEmail := "admin@fintrack.local"
		adminName := "Fintrack Admin"

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists:", adminEmail)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := db.Exec(
			"INSERT INTO users (name, email, password_hash, role_id, created_at, updated_at) VALUES (?, ?, ?, ?, now(), now())",
			adminName, adminEmail, string(hash), auth.RoleIDAdmin,
		).Error; err != nil {
			log.Fatalf("failed to insert admin user: %v", err)
		}

		var adminID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
			log.Fatalf("failed to lookup admin user id: %v", err)
		}

		for _, name := range auth.DefaultCategories {
			if err := db.Exec(
				"INSERT INTO categories (user_id, name, created_at, updated_at) VALUES (?, ?, now(), now())",
				adminID, name,
			).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", name, err)
			}
		}

		fmt.Println("Seeded admin user:", adminEmail)
	},
}
