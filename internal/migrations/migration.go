package migrations

import (
	"context"
	"errors"
	"fmt"
	"log"

	"agri_market/internal/database"
	"agri_market/internal/models"
	"agri_market/internal/repository"
	"agri_market/internal/services"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is set on every seeded account.
const DefaultPassword = "password123"

// RunMigrations brings the schema up to date. With reset the existing tables
// are dropped first.
func RunMigrations(db *gorm.DB, reset bool) error {
	log.Println("Running database migrations...")

	if reset {
		log.Println("Dropping existing tables...")
		tables := database.Models()
		// Reverse order so dependents go before the tables they reference.
		for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
			tables[i], tables[j] = tables[j], tables[i]
		}
		if err := db.Migrator().DropTable(tables...); err != nil {
			log.Printf("Warning: Error dropping tables: %v", err)
		}
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

type sampleUser struct {
	Username  string
	Email     string
	Phone     string
	Role      models.UserRole
	Latitude  float64
	Longitude float64
	Address   string
}

type sampleSupplier struct {
	sampleUser
	Profile   models.SupplierProfile
	Rating    string
	Products  []services.ProductInput
	Equipment []services.EquipmentInput
}

type sampleFarmer struct {
	sampleUser
	FarmName string
	Crops    string
	Produce  []services.ProduceInput
}

var sampleSuppliers = []sampleSupplier{
	{
		sampleUser: sampleUser{"supplier1", "supplier1@test.com", "+91 98765 43210", models.RoleSupplier, 13.0827, 77.5877, "Whitefield, Bangalore Urban"},
		Profile: models.SupplierProfile{
			BusinessName: "Green Valley Suppliers", ShopName: "Green Valley Agro Store", OwnerName: "Rajesh Kumar",
			BusinessTypes: "seeds,fertilizer,manure", Description: "Quality agricultural supplies with 15+ years of experience",
			Village: "Whitefield", District: "Bangalore Urban", State: "Karnataka", PinCode: "560066",
		},
		Rating: "4.5",
		Products: []services.ProductInput{
			{Name: "Hybrid Maize Seeds", Category: "seeds", Price: decimal.NewFromInt(450), Unit: "kg", StockQuantity: 120},
			{Name: "Urea 46% N", Category: "fertilizer", Price: decimal.NewFromInt(270), Unit: "bag", StockQuantity: 80},
			{Name: "Vermicompost", Category: "manure", Price: decimal.NewFromInt(12), Unit: "kg", StockQuantity: 500},
		},
	},
	{
		sampleUser: sampleUser{"supplier2", "supplier2@test.com", "+91 98765 43211", models.RoleSupplier, 13.0352, 77.5971, "BTM Layout, Bangalore Urban"},
		Profile: models.SupplierProfile{
			BusinessName: "Agro Tech Supplies", ShopName: "Agro Tech Equipment Hub", OwnerName: "Suresh Reddy",
			BusinessTypes: "equipment_rental,tools", Description: "Premium equipment rental and agricultural tools",
			Village: "BTM Layout", District: "Bangalore Urban", State: "Karnataka", PinCode: "560076",
		},
		Rating: "4.8",
		Products: []services.ProductInput{
			{Name: "Pruning Shears", Category: "tools", Price: decimal.NewFromInt(350), Unit: "piece", StockQuantity: 40},
		},
		Equipment: []services.EquipmentInput{
			{Name: "Mahindra 575 DI", EquipmentType: "tractor", DailyRate: decimal.NewFromInt(1500), Condition: "good"},
			{Name: "Knapsack Power Sprayer", EquipmentType: "sprayer", DailyRate: decimal.NewFromInt(300), Condition: "excellent"},
		},
	},
	{
		sampleUser: sampleUser{"supplier3", "supplier3@test.com", "+91 98765 43212", models.RoleSupplier, 13.1986, 77.7066, "Hoodi, Bangalore Urban"},
		Profile: models.SupplierProfile{
			BusinessName: "Farm Fresh Products", ShopName: "Farm Fresh Agro Center", OwnerName: "Kavitha Rao",
			BusinessTypes: "seeds,manure,fertilizer", Description: "Organic and traditional farming supplies",
			Village: "Hoodi", District: "Bangalore Urban", State: "Karnataka", PinCode: "560048",
		},
		Rating: "4.3",
	},
	{
		sampleUser: sampleUser{"supplier4", "supplier4@test.com", "+91 98765 43213", models.RoleSupplier, 12.9716, 77.5946, "Indiranagar, Bangalore Urban"},
		Profile: models.SupplierProfile{
			BusinessName: "Modern Agro Solutions", ShopName: "Modern Agro Store", OwnerName: "Prakash Shetty",
			BusinessTypes: "seeds,fertilizer,equipment_rental", Description: "Complete agricultural solutions under one roof",
			Village: "Indiranagar", District: "Bangalore Urban", State: "Karnataka", PinCode: "560038",
		},
		Rating: "4.9",
		Products: []services.ProductInput{
			{Name: "Paddy Seeds IR-64", Category: "seeds", Price: decimal.NewFromInt(60), Unit: "kg", StockQuantity: 300},
			{Name: "Neem Oil Pesticide", Category: "pesticide", Price: decimal.NewFromInt(220), Unit: "litre", StockQuantity: 6},
		},
		Equipment: []services.EquipmentInput{
			{Name: "Combine Harvester", EquipmentType: "harvester", DailyRate: decimal.NewFromInt(4500), Condition: "good"},
		},
	},
	{
		sampleUser: sampleUser{"supplier5", "supplier5@test.com", "+91 98765 43214", models.RoleSupplier, 13.0569, 77.6412, "Marathahalli, Bangalore Urban"},
		Profile: models.SupplierProfile{
			BusinessName: "Krishna Seeds & Fertilizers", ShopName: "Krishna Agro Mart", OwnerName: "Venkatesh Murthy",
			BusinessTypes: "seeds,fertilizer", Description: "Trusted name in quality seeds and fertilizers",
			Village: "Marathahalli", District: "Bangalore Urban", State: "Karnataka", PinCode: "560037",
		},
		Rating: "4.6",
		Products: []services.ProductInput{
			{Name: "DAP 18-46-0", Category: "fertilizer", Price: decimal.NewFromInt(1350), Unit: "bag", StockQuantity: 45},
			{Name: "Tomato Seeds Arka Rakshak", Category: "seeds", Price: decimal.NewFromInt(95), Unit: "packet", StockQuantity: 0},
		},
	},
}

var sampleFarmers = []sampleFarmer{
	{
		sampleUser: sampleUser{"farmer1", "farmer1@test.com", "+91 98450 11111", models.RoleFarmer, 12.2958, 76.6394, "Mysore"},
		FarmName:   "Cauvery Fields",
		Crops:      "paddy,sugarcane",
		Produce: []services.ProduceInput{
			{Name: "Sona Masuri Paddy", Category: "paddy", PricePerUnit: decimal.NewFromInt(28), Unit: "kg", AvailableQuantity: decimal.NewFromInt(2000)},
		},
	},
	{
		sampleUser: sampleUser{"farmer2", "farmer2@test.com", "+91 98450 22222", models.RoleFarmer, 13.3409, 77.1010, "Tumkur"},
		FarmName:   "Hill View Farm",
		Crops:      "vegetables,pulses",
		Produce: []services.ProduceInput{
			{Name: "Tomatoes", Category: "vegetables", PricePerUnit: decimal.NewFromInt(18), Unit: "kg", AvailableQuantity: decimal.NewFromInt(600)},
			{Name: "Toor Dal", Category: "pulses", PricePerUnit: decimal.NewFromInt(110), Unit: "kg", AvailableQuantity: decimal.NewFromInt(250)},
		},
	},
}

// SeedResult lists the accounts SeedSampleData created or refreshed.
type SeedResult struct {
	Users   []models.User
	Created int
	Updated int
}

// SeedSampleData creates the sample suppliers and farmers with their
// listings. Accounts that already exist only get their location refreshed,
// so running it twice does not duplicate listings.
func SeedSampleData(ctx context.Context, repos *repository.Repositories, catalog services.CatalogService) (*SeedResult, error) {
	log.Println("Creating sample data...")

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	result := &SeedResult{}

	for _, s := range sampleSuppliers {
		user, created, err := ensureUser(ctx, repos, s.sampleUser, string(hash))
		if err != nil {
			return nil, err
		}
		result.Users = append(result.Users, *user)
		if !created {
			result.Updated++
			continue
		}
		result.Created++

		profile := s.Profile
		profile.UserID = user.ID
		profile.Rating = decimal.RequireFromString(s.Rating)
		if err := repos.Profiles.CreateSupplier(ctx, &profile); err != nil {
			return nil, fmt.Errorf("failed to create supplier profile for %s: %w", s.Username, err)
		}

		actor := services.Actor{UserID: user.ID, Role: user.Role}
		for _, p := range s.Products {
			if _, err := catalog.CreateProduct(ctx, actor, p); err != nil {
				return nil, fmt.Errorf("failed to create product %q: %w", p.Name, err)
			}
		}
		for _, e := range s.Equipment {
			if _, err := catalog.CreateEquipment(ctx, actor, e); err != nil {
				return nil, fmt.Errorf("failed to create equipment %q: %w", e.Name, err)
			}
		}
		log.Printf("Created supplier %s (%s)", s.Username, profile.BusinessName)
	}

	for _, f := range sampleFarmers {
		user, created, err := ensureUser(ctx, repos, f.sampleUser, string(hash))
		if err != nil {
			return nil, err
		}
		result.Users = append(result.Users, *user)
		if !created {
			result.Updated++
			continue
		}
		result.Created++

		profile := &models.FarmerProfile{UserID: user.ID, FarmName: f.FarmName, CropsGrown: f.Crops}
		if err := repos.Profiles.CreateFarmer(ctx, profile); err != nil {
			return nil, fmt.Errorf("failed to create farmer profile for %s: %w", f.Username, err)
		}

		actor := services.Actor{UserID: user.ID, Role: user.Role}
		for _, p := range f.Produce {
			if _, err := catalog.CreateProduce(ctx, actor, p); err != nil {
				return nil, fmt.Errorf("failed to create produce %q: %w", p.Name, err)
			}
		}
		log.Printf("Created farmer %s (%s)", f.Username, f.FarmName)
	}

	log.Printf("Sample data ready: %d created, %d updated", result.Created, result.Updated)
	return result, nil
}

func ensureUser(ctx context.Context, repos *repository.Repositories, s sampleUser, passwordHash string) (*models.User, bool, error) {
	existing, err := repos.Users.GetByUsername(ctx, s.Username)
	if err == nil {
		if err := repos.Users.UpdateLocation(ctx, existing.ID, s.Latitude, s.Longitude, s.Address); err != nil {
			return nil, false, fmt.Errorf("failed to update location for %s: %w", s.Username, err)
		}
		existing.Latitude, existing.Longitude = &s.Latitude, &s.Longitude
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	lat, lon := s.Latitude, s.Longitude
	user := &models.User{
		Username:     s.Username,
		Email:        s.Email,
		PhoneNumber:  s.Phone,
		PasswordHash: passwordHash,
		Role:         string(s.Role),
		Address:      s.Address,
		Latitude:     &lat,
		Longitude:    &lon,
		IsVerified:   true,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", s.Username, err)
	}
	return user, true, nil
}
