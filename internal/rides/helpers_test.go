package rides

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"rideshare-backend/internal/db"
	"rideshare-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var departure = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

// newTestDB отдельная in-memory база на тест; одно соединение, поэтому
// транзакции выполняются строго по очереди, как под блокировкой строки.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	gdb := newTestDB(t)
	return NewEngine(gdb), gdb
}

func createUser(t *testing.T, gdb *gorm.DB, name, gender string) models.User {
	t.Helper()
	user := models.User{
		Fullname: name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Gender:   gender,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func validRide() models.RideCreate {
	return models.RideCreate{
		Source:      "Almaty",
		Destination: "Astana",
		DepartureAt: departure,
		CarClass:    "comfort",
		CarModel:    "Toyota Camry",
		TotalSeats:  4,
		RideCost:    2500,
		GenderPref:  models.GenderPrefAny,
		Description: "Выезжаю утром, небольшой багаж",
	}
}

func loadRide(t *testing.T, gdb *gorm.DB, rideID uint) models.Ride {
	t.Helper()
	var ride models.Ride
	require.NoError(t, gdb.First(&ride, rideID).Error)
	return ride
}

func countRows(t *testing.T, gdb *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// assertSeatInvariant seats_left = total_seats - число мест (включая создателя)
func assertSeatInvariant(t *testing.T, gdb *gorm.DB, rideID uint) {
	t.Helper()
	ride := loadRide(t, gdb, rideID)
	members := countRows(t, gdb, &models.Passenger{}, "ride_id = ?", rideID)
	assert.Equal(t, ride.TotalSeats-int(members), ride.SeatsLeft, "seats_left рассогласован с числом пассажиров")
	assert.GreaterOrEqual(t, ride.SeatsLeft, 0)
	assert.LessOrEqual(t, ride.SeatsLeft, ride.TotalSeats)
}

func chatMember(t *testing.T, gdb *gorm.DB, rideID, userID uint) bool {
	t.Helper()
	var room models.ChatRoom
	require.NoError(t, gdb.Where("ride_id = ?", rideID).First(&room).Error)
	return countRows(t, gdb, &models.ChatRoomUser{}, "chat_room_id = ? AND user_id = ?", room.ID, userID) == 1
}
