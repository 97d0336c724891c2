// -----------------------------------------------------------------------------
// Database Package
// -----------------------------------------------------------------------------
// Bu dosya, uygulamanın MySQL bağlantı havuzunu kurar. Open ağa çıkmaz;
// bağlantılar ilk sorguda açılır. Erişilebilirlik, çağıranın context'i ile
// PingContext üzerinden kontrol edilir (health check).
// -----------------------------------------------------------------------------

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Config, bağlantı havuzu ayarlarıdır.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig, varsayılan havuz ayarlarıyla bir Config döndürür.
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:             dsn,
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Open, DSN'i doğrular ve havuzu yapılandırır; bağlantı kurmaz. Log'a
// şifresi gizlenmiş DSN yazılır.
//
// parseTime verilmemişse açılır; DATETIME kolonları time.Time olarak okunur.
func Open(cfg Config, logger logrus.FieldLogger) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: invalid DSN: %w", err)
	}
	mcfg.ParseTime = true

	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("database: create connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	logger.WithFields(logrus.Fields{
		"component":      "database",
		"dsn":            RedactDSN(cfg.DSN),
		"max_open_conns": cfg.MaxOpenConns,
	}).Info("Database pool configured")
	return db, nil
}

// RedactDSN, log'a yazılabilecek, şifresi gizlenmiş DSN döndürür.
func RedactDSN(dsn string) string {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "<invalid>"
	}
	if mcfg.Passwd != "" {
		mcfg.Passwd = "***"
	}
	return mcfg.FormatDSN()
}
