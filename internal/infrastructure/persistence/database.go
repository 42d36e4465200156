package persistence

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dripnest/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database holds the database connection and tracks whether it is reachable.
// The connection is opened lazily so the API can start while the database is down.
type Database struct {
	DB *gorm.DB

	logger         *zap.Logger
	attempts       int
	retryDelay     time.Duration
	healthInterval time.Duration

	healthy  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewDatabase opens a postgres pool from cfg without requiring the server to be up
func NewDatabase(cfg *config.DatabaseConfig, gormLog gormlogger.Interface, log *zap.Logger) (*Database, error) {
	if gormLog == nil {
		gormLog = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	d := NewDatabaseFromGorm(db, log)
	d.attempts = cfg.ConnectAttempts
	d.retryDelay = cfg.ConnectRetryDelay
	d.healthInterval = cfg.HealthInterval
	return d, nil
}

// NewDatabaseFromGorm wraps an existing connection, marking it healthy
func NewDatabaseFromGorm(db *gorm.DB, log *zap.Logger) *Database {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Database{
		DB:             db,
		logger:         log.Named("database"),
		attempts:       5,
		retryDelay:     5 * time.Second,
		healthInterval: 5 * time.Second,
		stop:           make(chan struct{}),
	}
	d.healthy.Store(true)
	return d
}

// Connect pings the database up to the configured number of attempts.
// On failure the database is marked unhealthy and the last error is returned;
// the health monitor keeps trying in the background.
func (d *Database) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if lastErr = d.Ping(ctx); lastErr == nil {
			d.healthy.Store(true)
			d.logger.Info("Database connected", zap.Int("attempt", attempt))
			return nil
		}
		d.logger.Warn("Database connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", d.attempts),
			zap.Error(lastErr),
		)
		if attempt == d.attempts {
			break
		}
		select {
		case <-ctx.Done():
			d.healthy.Store(false)
			return ctx.Err()
		case <-time.After(d.retryDelay):
		}
	}
	d.healthy.Store(false)
	return fmt.Errorf("database unreachable after %d attempts: %w", d.attempts, lastErr)
}

// StartHealthMonitor pings the database periodically until Close is called
func (d *Database) StartHealthMonitor() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ticker := time.NewTicker(d.healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-d.stop:
				return
			case <-ticker.C:
				d.checkHealth()
			}
		}
	}()
}

func (d *Database) checkHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), d.healthInterval)
	defer cancel()

	err := d.Ping(ctx)
	was := d.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		d.logger.Error("Database connection lost", zap.Error(err))
	case err == nil && !was:
		d.logger.Info("Database connection restored")
	}
}

// IsHealthy reports the last known reachability of the database
func (d *Database) IsHealthy() bool {
	return d.healthy.Load()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close stops the health monitor and closes the pool
func (d *Database) Close() error {
	d.stopOnce.Do(func() { close(d.stop) })
	d.wg.Wait()
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
}
