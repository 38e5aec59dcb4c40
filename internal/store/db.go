package store

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultLocation labels purchases saved without a location.
const DefaultLocation = "Local Desconhecido"

// ErrInvalidAmount is returned for amounts that are not positive numbers.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Purchase{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddPurchase records a purchase made now.
func (d *Database) AddPurchase(amount float64, location string) (*Purchase, error) {
	return d.AddPurchaseAt(amount, location, time.Now())
}

// AddPurchaseAt records a purchase with an explicit timestamp. Blank
// locations are stored as DefaultLocation.
func (d *Database) AddPurchaseAt(amount float64, location string, at time.Time) (*Purchase, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultLocation
	}
	p := &Purchase{
		ID:        uuid.NewString(),
		Location:  location,
		Amount:    amount,
		Timestamp: at.UnixMilli(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.gorm.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns every purchase, newest first.
func (d *Database) ListPurchases() ([]Purchase, error) {
	if d == nil {
		return nil, errors.New("database is nil")
	}
	var rows []Purchase
	if err := d.gorm.Model(&Purchase{}).Order("timestamp DESC").Order("rowid DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountPurchases returns the number of stored purchases.
func (d *Database) CountPurchases() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Purchase{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ClearPurchases removes the whole purchase history.
func (d *Database) ClearPurchases() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Purchase{}).Error
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"UPDATE purchases SET location = 'Local Desconhecido' WHERE location IS NULL OR TRIM(location) = ''",
		"CREATE INDEX IF NOT EXISTS idx_purchases_location_timestamp ON purchases(location, timestamp)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
