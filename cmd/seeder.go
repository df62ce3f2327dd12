package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"chat_messages", "conversations", "notifications", "demand_predictions",
				"purchases", "payment_transactions", "supplier_orders", "products",
				"tasks", "salary_payments", "leaves", "attendance_records", "staff",
				"supplier_applications", "supplier_profiles", "users",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser(db, "admin@freshnest.io", "Nisha Admin", "admin", string(hash))
		staffUserID := seedUser(db, "ravi@freshnest.io", "Ravi Kumar", "staff", string(hash))
		supervisorUserID := seedUser(db, "meera@freshnest.io", "Meera Pillai", "staff", string(hash))
		supplierUserID := seedUser(db, "supplies@agrofarm.io", "AgroFarm Supplies", "supplier", string(hash))
		seedUser(db, "customer@mail.com", "Walk-in Customer", "user", string(hash))

		seedStaff(db, staffUserID, "EMP-1001", "Ravi Kumar", "ravi@freshnest.io", "Cashier", "morning", 28000)
		seedStaff(db, supervisorUserID, "EMP-1002", "Meera Pillai", "meera@freshnest.io", "Floor Supervisor", "evening", 42000)

		var exists int
		if err := db.Raw("SELECT 1 FROM supplier_profiles WHERE user_id = ?", supplierUserID).Row().Scan(&exists); err != nil {
			if err := db.Exec(
				"INSERT INTO supplier_profiles (user_id, contact_person, category, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				supplierUserID, "Arun Varma", "Fruits & Vegetables",
			).Error; err != nil {
				log.Fatalf("failed to insert supplier profile: %v", err)
			}
			fmt.Println("Seeded supplier profile for:", "supplies@agrofarm.io")
		}

		products := []struct {
			Name     string
			SKU      string
			Category string
			Brand    string
			Price    float64
			Cost     float64
			Stock    int
		}{
			{"Full Cream Milk 1L", "MILK-FC-1L", "Dairy & Eggs", "Amul", 66, 58, 120},
			{"Brown Bread 400g", "BREAD-BR-400", "Bakery", "Modern", 45, 36, 40},
			{"Basmati Rice 5kg", "RICE-BAS-5KG", "Staples", "India Gate", 520, 450, 25},
			{"Bananas 1kg", "FRT-BAN-1KG", "Fruits & Vegetables", "", 48, 32, 8},
		}
		for _, p := range products {
			var pid int64
			if err := db.Raw("SELECT id FROM products WHERE sku = ?", p.SKU).Row().Scan(&pid); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO products (name, sku, category, brand, price, cost_price, stock, unit, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, 'pcs', 'active', now(), now())",
				p.Name, p.SKU, p.Category, p.Brand, p.Price, p.Cost, p.Stock,
			).Error; err != nil {
				log.Fatalf("failed to insert product %s: %v", p.SKU, err)
			}
			fmt.Printf("Seeded product: %s\n", p.SKU)
		}

		fmt.Println("Seeding complete. Default password for all accounts:", password)
	},
}

func seedUser(db *gorm.DB, email, name, role, hash string) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		fmt.Printf("user %s already exists\n", email)
		return id
	}

	if err := db.Exec(
		"INSERT INTO users (email, name, password_hash, role, status, email_verified, created_at, updated_at) VALUES (?, ?, ?, ?, 'active', true, now(), now())",
		email, name, hash, role,
	).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}

	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}
	fmt.Printf("Seeded %s user: %s\n", role, email)
	return id
}

func seedStaff(db *gorm.DB, userID int64, employeeID, name, email, position, shift string, salary float64) {
	var exists int
	if err := db.Raw("SELECT 1 FROM staff WHERE employee_id = ?", employeeID).Row().Scan(&exists); err == nil {
		return
	}

	if err := db.Exec(
		"INSERT INTO staff (user_id, employee_id, name, email, position, shift, salary, joining_date, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, now(), 'active', now(), now())",
		userID, employeeID, name, email, position, shift, salary,
	).Error; err != nil {
		log.Fatalf("failed to insert staff %s: %v", employeeID, err)
	}
	fmt.Printf("Seeded staff: %s (%s)\n", name, employeeID)
}
