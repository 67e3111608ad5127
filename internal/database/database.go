package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"termimage/backend/internal/models"
)

// Connect opens the database for driver and runs migrations. Until ctx is
// done, an unreachable database is retried with exponential backoff.
func Connect(ctx context.Context, driver, dsn string, log *logrus.Entry) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := open(ctx, dialector, log, newRetryPolicy())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.WithField("driver", driver).Info("Database connection established.")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database migrated successfully.")
	return db, nil
}

func newRetryPolicy() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 0 // bounded by the caller's context
	return policy
}

// open retries gorm.Open, which pings the server, according to policy.
func open(ctx context.Context, dialector gorm.Dialector, log *logrus.Entry, policy backoff.BackOff) (*gorm.DB, error) {
	var db *gorm.DB
	connect := func() error {
		var err error
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: NewLogger(log, 200*time.Millisecond),
		})
		return err
	}
	retrying := func(err error, wait time.Duration) {
		log.WithError(err).WithField("retry_in", wait.String()).Warn("Database not reachable yet")
	}
	if err := backoff.RetryNotify(connect, backoff.WithContext(policy, ctx), retrying); err != nil {
		return nil, err
	}
	return db, nil
}

// Dialector picks the gorm driver.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Term{},
		&models.TermMeta{},
		&models.Option{},
		&models.Attachment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// gormLogger writes gorm's query log through logrus.
type gormLogger struct {
	log           *logrus.Entry
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewLogger adapts log for gorm. Queries slower than slowThreshold are warned about.
func NewLogger(log *logrus.Entry, slowThreshold time.Duration) logger.Interface {
	return &gormLogger{log: log.WithField("component", "gorm"), level: logger.Warn, slowThreshold: slowThreshold}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.log.Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.log.Errorf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"sql": sql, "rows": rows, "elapsed": elapsed.String()}).WithError(err).Error("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"sql": sql, "rows": rows, "elapsed": elapsed.String()}).Warn("slow query")
	case l.level >= logger.Info:
		sql, rows := fc()
		l.log.WithFields(logrus.Fields{"sql": sql, "rows": rows, "elapsed": elapsed.String()}).Debug("query")
	}
}
