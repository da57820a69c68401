package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"mathiphone/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedRates(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('iphone','macbook','watch','airpods','ipad','accesorio')),
  model TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  storage TEXT NOT NULL DEFAULT '',
  color TEXT NOT NULL DEFAULT '',
  condition TEXT NOT NULL CHECK (condition IN ('sealed','like-new','excellent','good')),
  battery_health INTEGER NULL CHECK (battery_health BETWEEN 0 AND 100),
  price_ars REAL NOT NULL DEFAULT 0 CHECK (price_ars >= 0),
  price_usd REAL NOT NULL DEFAULT 0 CHECK (price_usd >= 0),
  screen_size TEXT NOT NULL DEFAULT '',
  chip TEXT NOT NULL DEFAULT '',
  camera TEXT NOT NULL DEFAULT '',
  features_json TEXT NOT NULL DEFAULT '[]',
  available INTEGER NOT NULL DEFAULT 1,
  warranty_months INTEGER NOT NULL DEFAULT 0 CHECK (warranty_months >= 0),
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Exchange rates (single row)
CREATE TABLE IF NOT EXISTS exchange_rates(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  usd REAL NOT NULL,
  ars REAL NOT NULL,
  usdt REAL NOT NULL,
  btc REAL NOT NULL,
  eth REAL NOT NULL,
  updated_at TEXT
);

-- Compare selections, per session
CREATE TABLE IF NOT EXISTS compare_items(
  session_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  created_at TEXT,
  PRIMARY KEY (session_id, product_id)
);
CREATE INDEX IF NOT EXISTS idx_compare_session ON compare_items(session_id);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO products(id,name,category,model,type,storage,color,condition,battery_health,
	  price_ars,price_usd,screen_size,chip,camera,features_json,available,warranty_months,description,created_at) VALUES
	  ('ip15p-001','iPhone 15 Pro','iphone','15','pro','256GB','Natural Titanium','excellent',92,
	   1250000,1250,'6.1"','A17 Pro','48MP','["Dynamic Island","USB-C"]',1,6,'Unlocked, original box','2025-01-01T00:00:03Z'),
	  ('ip13-001','iPhone 13','iphone','13','normal','128GB','Midnight','good',78,
	   520000,520,'6.1"','A15 Bionic','12MP','["Face ID"]',1,3,'Minor scratches on frame','2025-01-01T00:00:02Z'),
	  ('mba-m2-001','MacBook Air M2','macbook','air','m2','512GB','Midnight','like-new',88,
	   1400000,1400,'13.6"','M2','1080p','["Touch ID","MagSafe"]',1,6,'Battery cycle count 120','2025-01-01T00:00:01Z'),
	  ('pencil-001','Apple Pencil 2','accesorio','pencil','pencil','','White','sealed',NULL,
	   130000,130,'','','','[]',1,6,'Second generation, sealed','2025-01-01T00:00:00Z')`)

	return tx.Commit()
}

// seedRates inserts the default rate row once; later runs keep whatever is stored.
func seedRates(db *sqlx.DB) error {
	r := domain.DefaultRates()
	_, err := db.Exec(`INSERT INTO exchange_rates(id,usd,ars,usdt,btc,eth,updated_at)
	  VALUES(1,?,?,?,?,?,CURRENT_TIMESTAMP) ON CONFLICT(id) DO NOTHING`, r.USD, r.ARS, r.USDT, r.BTC, r.ETH)
	return err
}

// seedUsers ensures a demo USER and ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-mathi", "mathi@mathiphone.test", "Mathi", domain.RoleUser, "Passw0rd!"),
		mk("u-admin", "admin@mathiphone.test", "Admin", domain.RoleAdmin, "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
