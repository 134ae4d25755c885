package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"agri_market/internal/database/dbtest"
	"agri_market/internal/events"
	"agri_market/internal/models"
	cache "agri_market/internal/redis"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type memoryCache struct {
	mu         sync.Mutex
	generation int64
	entries    map[string][]byte
	gets       int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages map[string][]string
	err      error
}

func (s *recordingSender) SendTextMessage(_ context.Context, phone, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.messages == nil {
		s.messages = map[string][]string{}
	}
	s.messages[phone] = append(s.messages[phone], message)
	return nil
}

type fixture struct {
	t          *testing.T
	ctx        context.Context
	db         *gorm.DB
	repos      *repository.Repositories
	publisher  *recordingPublisher
	cache      *memoryCache
	sender     *recordingSender
	dispatcher *Dispatcher
	users      int
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.NewTestDB(t)
	repos := repository.New(db)
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		repos:     repos,
		publisher: &recordingPublisher{},
		cache:     newMemoryCache(),
		sender:    &recordingSender{},
	}
	notifications := NewNotificationService(repos.Notifications, repos.Users, f.sender)
	f.dispatcher = NewDispatcher(f.publisher, notifications, f.cache)
	return f
}

func ptr(v float64) *float64 { return &v }

func (f *fixture) user(role models.UserRole, lat, lon *float64) *models.User {
	f.t.Helper()
	f.users++
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", role, f.users),
		PhoneNumber: fmt.Sprintf("98765%05d", f.users),
		Role:        string(role),
		Latitude:    lat,
		Longitude:   lon,
	}
	require.NoError(f.t, f.repos.Users.Create(f.ctx, user))
	return user
}

func (f *fixture) actor(user *models.User) Actor {
	return Actor{UserID: user.ID, Role: user.Role}
}

func (f *fixture) supplier(lat, lon *float64) (*models.User, *models.SupplierProfile) {
	f.t.Helper()
	user := f.user(models.RoleSupplier, lat, lon)
	profile := DefaultSupplierProfile(user)
	require.NoError(f.t, f.repos.Profiles.CreateSupplier(f.ctx, profile))
	return user, profile
}

func (f *fixture) farmer(lat, lon *float64) (*models.User, *models.FarmerProfile) {
	f.t.Helper()
	user := f.user(models.RoleFarmer, lat, lon)
	profile := DefaultFarmerProfile(user)
	require.NoError(f.t, f.repos.Profiles.CreateFarmer(f.ctx, profile))
	return user, profile
}

func (f *fixture) product(supplierID uint, name, category string, stock int, price string) *models.Product {
	f.t.Helper()
	product := &models.Product{
		SupplierID:    supplierID,
		Name:          name,
		Category:      category,
		Price:         decimal.RequireFromString(price),
		Unit:          "kg",
		StockQuantity: stock,
		IsAvailable:   true,
	}
	require.NoError(f.t, f.repos.Products.Create(f.ctx, product))
	return product
}

func (f *fixture) equipment(supplierID uint, name string, rate string) *models.Equipment {
	f.t.Helper()
	equipment := &models.Equipment{
		SupplierID:    supplierID,
		Name:          name,
		EquipmentType: "tractor",
		DailyRate:     decimal.RequireFromString(rate),
		Status:        string(models.EquipmentAvailable),
	}
	require.NoError(f.t, f.repos.Equipment.Create(f.ctx, equipment))
	return equipment
}

func (f *fixture) stock(productID uint) int {
	f.t.Helper()
	product, err := f.repos.Products.GetByID(f.ctx, productID)
	require.NoError(f.t, err)
	return product.StockQuantity
}

func (f *fixture) stockLogs(productID uint) []models.StockLog {
	f.t.Helper()
	logs, err := f.repos.StockLogs.GetByProductID(f.ctx, productID)
	require.NoError(f.t, err)
	return logs
}

func (f *fixture) produce(farmerID uint, name string, quantity, price string) *models.FarmProduce {
	f.t.Helper()
	produce := &models.FarmProduce{
		FarmerID:          farmerID,
		Name:              name,
		Category:          "vegetables",
		PricePerUnit:      decimal.RequireFromString(price),
		Unit:              "kg",
		AvailableQuantity: decimal.RequireFromString(quantity),
		IsAvailable:       true,
	}
	require.NoError(f.t, f.repos.Produce.Create(f.ctx, produce))
	return produce
}

func (f *fixture) produceQuantity(produceID uint) decimal.Decimal {
	f.t.Helper()
	produce, err := f.repos.Produce.GetByID(f.ctx, produceID)
	require.NoError(f.t, err)
	return produce.AvailableQuantity
}

func (f *fixture) produceLogs(produceID uint) []models.ProduceLog {
	f.t.Helper()
	logs, err := f.repos.StockLogs.GetByProduceID(f.ctx, produceID)
	require.NoError(f.t, err)
	return logs
}
