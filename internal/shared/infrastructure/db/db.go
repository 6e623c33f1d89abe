package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"GroveWorld/internal/shared/logs"
	"GroveWorld/internal/shared/serverconfig"
)

// Open connects to MySQL through gorm with the zap bridge as its logger.
func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logs.NewGormLogger(level, 200*time.Millisecond),
		TranslateError: true,
	}

	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	// username:password@protocol(address)/dbname?charset=utf8mb4&parseTime=True&loc=Local
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
	db, err := gorm.Open(mysql.Open(dsn), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}

	logs.Info("open db success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return db, nil
}
