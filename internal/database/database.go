package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func New(databaseURL string) (*Database, error) {
	var db *gorm.DB
	var err error

	if strings.HasPrefix(databaseURL, "sqlite://") {
		// SQLite for development
		dbPath := strings.TrimPrefix(databaseURL, "sqlite://")
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		// PostgreSQL for production
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create tables manually with raw SQL
	createTablesSQL := `
	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		description TEXT,
		meta_description TEXT,
		brand TEXT,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		compare_at_price DECIMAL(10,2),
		stock INTEGER,
		status TEXT DEFAULT 'active',
		images TEXT,
		sizes TEXT,
		colors TEXT,
		google_product_category TEXT,
		category_id UUID,
		featured BOOLEAN DEFAULT false,
		featured_position INTEGER DEFAULT 0,
		trending BOOLEAN DEFAULT false,
		trending_position INTEGER DEFAULT 0,
		deal BOOLEAN DEFAULT false,
		deal_position INTEGER DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		position INTEGER DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS product_categories (
		product_id UUID NOT NULL,
		category_id UUID NOT NULL,
		position INTEGER DEFAULT 0,
		PRIMARY KEY (product_id, category_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		number TEXT UNIQUE NOT NULL,
		customer_name TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		customer_email TEXT,
		address TEXT,
		city TEXT,
		notes TEXT,
		items TEXT,
		subtotal DECIMAL(10,2) DEFAULT 0,
		delivery_fee DECIMAL(10,2) DEFAULT 0,
		total DECIMAL(10,2) DEFAULT 0,
		status TEXT DEFAULT 'pending',
		mpesa_ref TEXT,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS blog_posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		slug TEXT UNIQUE NOT NULL,
		excerpt TEXT,
		body TEXT,
		cover_image TEXT,
		published BOOLEAN DEFAULT false,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ DEFAULT NOW(),
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TIMESTAMPTZ DEFAULT NOW()
	);
	`

	err = db.Exec(createTablesSQL).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
