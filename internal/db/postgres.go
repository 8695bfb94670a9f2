package db

import (
	"fmt"
	"log/slog"
	"time"

	"rideshare-backend/internal/config"
	"rideshare-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormConfig общие настройки gorm: ошибки драйвера переводятся в gorm.ErrDuplicatedKey
// и т.п., "record not found" не засоряет лог.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(slogWriter{}, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

// ConnectWithRetry подключается к PostgreSQL, повторяя попытки, и настраивает пул
func ConnectWithRetry(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for i := 0; i < cfg.DBConnAttempts; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), GormConfig())
		if err == nil {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, fmt.Errorf("не удалось получить доступ к sql.DB: %w", err)
			}

			sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
			sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)

			return db, nil
		}
		slog.Warn("попытка подключения к БД не удалась",
			"attempt", i+1, "max_attempts", cfg.DBConnAttempts, "error", err)
		time.Sleep(cfg.DBConnRetryWait)
	}
	return nil, fmt.Errorf("не удалось подключиться к базе данных после %d попыток: %w", cfg.DBConnAttempts, err)
}

// Migrate создает таблицы поездок, пассажиров и чатов
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.Passenger{},
		&models.ChatRoom{},
		&models.ChatRoomUser{},
		&models.Message{},
	)
}
