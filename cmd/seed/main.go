package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"servicehub/internal/database"
	"servicehub/internal/domain"
	"servicehub/internal/platform/logger"
)

// Seeds a local database with demo accounts and bookings in every stage of
// the lifecycle. Never run against production data.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "servicehub.db"
	}

	db, err := database.Connect(dsn, logger.NewDefault())
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	for _, table := range []string{
		"notifications", "device_tokens", "messages", "conversations",
		"ratings", "bookings", "business_hours", "gallery_images",
		"provider_services", "settings", "uploads", "users",
	} {
		db.Exec("DELETE FROM " + table)
	}

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@servicehub.test",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Admin",
		Active:       true,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@servicehub.test / admin123")

	customers := make([]domain.User, 0, 3)
	for i, email := range []string{"maria@test.com", "john@test.com", "aisha@test.com"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
		c := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleCustomer,
			Name:         fmt.Sprintf("Customer %d", i+1),
			Phone:        fmt.Sprintf("+1 555 010 10%02d", i+1),
			Address:      fmt.Sprintf("%d Main Street", 100+i),
			Active:       true,
		}
		db.Create(&c)
		customers = append(customers, c)
	}

	providers := make([]domain.User, 0, 3)
	services := []string{"Plumbing", "Cleaning", "Electrical"}
	for i, email := range []string{"pipes@pro.test", "sparkle@pro.test", "volt@pro.test"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("provider123"), bcrypt.DefaultCost)
		p := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleProvider,
			Name:         fmt.Sprintf("%s Pros %d", services[i], i+1),
			Phone:        fmt.Sprintf("+1 555 020 20%02d", i+1),
			Address:      fmt.Sprintf("%d Workshop Lane", 200+i),
			Service:      services[i],
			Description:  fmt.Sprintf("Professional %s with a decade of experience", services[i]),
			Verified:     true,
			Active:       true,
		}
		db.Create(&p)
		providers = append(providers, p)

		db.Create(&domain.ProviderService{
			ProviderID:  p.ID,
			Task:        services[i],
			Description: fmt.Sprintf("Standard %s visit", services[i]),
			Price:       50 + float64(i)*25,
			Personels:   2,
		})
		db.Create(&domain.ProviderService{
			ProviderID:  p.ID,
			Task:        services[i] + " Emergency",
			Description: "Same-day callout",
			Price:       120 + float64(i)*25,
			Personels:   1,
		})

		for d := 1; d <= 5; d++ {
			db.Create(&domain.BusinessHours{
				ProviderID: p.ID,
				Weekday:    d,
				Open:       "09:00",
				Close:      "18:00",
			})
		}
		db.Create(&domain.BusinessHours{ProviderID: p.ID, Weekday: 0, Closed: true})
		db.Create(&domain.BusinessHours{ProviderID: p.ID, Weekday: 6, Closed: true})

		db.Create(&domain.GalleryImage{
			ProviderID: p.ID,
			URL:        fmt.Sprintf("/static/uploads/demo/shop%d.jpg", i+1),
		})
	}

	for _, u := range append(append([]domain.User{admin}, customers...), providers...) {
		db.Create(domain.DefaultSettings(u.ID))
	}

	log.Println("Creating bookings...")

	now := time.Now()
	confirmedAt := now.Add(-48 * time.Hour)
	completedAt := now.Add(-24 * time.Hour)

	// One booking per lifecycle stage against the first provider.
	db.Create(&domain.Booking{
		CustomerID: customers[0].ID,
		ProviderID: providers[0].ID,
		Task:       "Plumbing",
		Date:       now.AddDate(0, 0, 3).Format("2006-01-02"),
		Time:       "10:00",
		Address:    customers[0].Address,
		Status:     domain.BookingPending,
	})
	db.Create(&domain.Booking{
		CustomerID:  customers[1].ID,
		ProviderID:  providers[0].ID,
		Task:        "Plumbing",
		Date:        now.AddDate(0, 0, 1).Format("2006-01-02"),
		Time:        "14:00",
		Address:     customers[1].Address,
		Status:      domain.BookingConfirmed,
		ConfirmedAt: &confirmedAt,
	})
	completed := domain.Booking{
		CustomerID:  customers[2].ID,
		ProviderID:  providers[1].ID,
		Task:        "Cleaning",
		Date:        now.AddDate(0, 0, -2).Format("2006-01-02"),
		Time:        "09:00",
		Address:     customers[2].Address,
		Status:      domain.BookingCompleted,
		ConfirmedAt: &confirmedAt,
		DoneAt:      &completedAt,
	}
	db.Create(&completed)

	log.Println("Creating reviews...")
	db.Create(&domain.Rating{
		BookingID:  completed.ID,
		ProviderID: providers[1].ID,
		CustomerID: customers[2].ID,
		Stars:      5,
		Review:     "Spotless work, arrived on time.",
	})
	db.Model(&domain.User{}).Where("id = ?", providers[1].ID).
		Updates(map[string]any{"ratings_total": 5.0, "reviews_count": 1})

	log.Println("Seed completed!")
	log.Println("Admin:     admin@servicehub.test / admin123")
	log.Println("Customers: maria@test.com ... / customer123")
	log.Println("Providers: pipes@pro.test ... / provider123")
}
