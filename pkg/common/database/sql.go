package database

import (
	"fmt"
	"sync"

	"github.com/synaptica-ai/trialops/pkg/common/config"
	"github.com/synaptica-ai/trialops/pkg/common/logger"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

// GetHGRAC returns the shared connection to the regulatory tracking database.
func GetHGRAC(cfg *config.Config) (*gorm.DB, error) {
	dbOnce.Do(func() {
		dialector, err := dialectorFor(cfg)
		if err != nil {
			dbErr = err
			return
		}

		db, dbErr = gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if dbErr != nil {
			logger.Log.WithError(dbErr).WithField("driver", cfg.HGRACDriver).Error("Failed to connect to HGRAC database")
			return
		}

		logger.Log.WithField("driver", cfg.HGRACDriver).Info("Connected to HGRAC database")
	})

	return db, dbErr
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.HGRACDriver {
	case "postgres", "postgresql", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.HGRACHost,
			cfg.HGRACUser,
			cfg.HGRACPassword,
			cfg.HGRACDB,
			cfg.HGRACPort,
			cfg.HGRACSSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.HGRACUser,
			cfg.HGRACPassword,
			cfg.HGRACHost,
			cfg.HGRACPort,
			cfg.HGRACDB,
		)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported HGRAC driver %q", cfg.HGRACDriver)
	}
}

func CloseHGRAC() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
