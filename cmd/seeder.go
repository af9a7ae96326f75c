package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	rateDatamodel "github.com/worktrack/payroll/internal/core/datamodel/rate"
	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"time_tracks", "user_rates", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		accounts := []struct {
			Login    string
			Name     string
			Position string
			Role     string
			Rate     string
		}{
			{"admin", "Administrator", "Owner", "admin", "1500"},
			{"moderator", "Team Moderator", "Team Lead", "moderator", "1200"},
			{"worker", "Sample Worker", "Developer", "user", "1000"},
		}

		for _, a := range accounts {
			var existing userDatamodel.User
			err := db.Where("login = ?", a.Login).First(&existing).Error
			if err == nil {
				fmt.Printf("user %s already exists, skipping\n", a.Login)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				log.Fatalf("failed to check user %s: %v", a.Login, err)
			}

			row := userDatamodel.User{
				Login:        a.Login,
				PasswordHash: string(hash),
				Name:         a.Name,
				Position:     a.Position,
				Role:         a.Role,
			}
			if err := db.Create(&row).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Login, err)
			}

			seedRate := rateDatamodel.Rate{
				UserID:    row.ID,
				Rate:      decimal.RequireFromString(a.Rate),
				ValidFrom: time.Now().UTC().Truncate(24 * time.Hour),
			}
			if err := db.Create(&seedRate).Error; err != nil {
				log.Fatalf("failed to insert rate for %s: %v", a.Login, err)
			}

			fmt.Printf("Seeded user %s (%s) with rate %s\n", a.Login, a.Role, a.Rate)
		}

		fmt.Println("Seeding complete. Default password: changeme123")
	},
}
