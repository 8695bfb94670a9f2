package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"rideshare-backend/internal/db"
	"rideshare-backend/internal/models"
	"rideshare-backend/internal/rides"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var departure = time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	engine *rides.Engine
	chat   *Service
	driver models.User
	rider  models.User
	rideID uint
	chatID uint
}

func setup(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

	f := &fixture{db: gdb, engine: rides.NewEngine(gdb), chat: NewService(gdb, nil)}
	f.driver = models.User{Fullname: "Driver", Email: "driver@example.com", Gender: "male"}
	f.rider = models.User{Fullname: "Rider", Email: "rider@example.com", Gender: "female"}
	require.NoError(t, gdb.Create(&f.driver).Error)
	require.NoError(t, gdb.Create(&f.rider).Error)

	f.rideID, err = f.engine.CreateRide(context.Background(), f.driver.ID, models.RideCreate{
		Source:      "Almaty",
		Destination: "Astana",
		DepartureAt: departure,
		CarClass:    "comfort",
		CarModel:    "Kia K5",
		TotalSeats:  3,
		RideCost:    3000,
		Description: "Поездка без остановок",
	})
	require.NoError(t, err)

	var room models.ChatRoom
	require.NoError(t, gdb.Where("ride_id = ?", f.rideID).First(&room).Error)
	f.chatID = room.ID
	return f
}

func TestChatMembershipFollowsRide(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.chat.SendMessage(ctx, f.rider.ID, f.chatID, "Привет")
	require.ErrorIs(t, err, rides.ErrForbidden)

	_, err = f.chat.ListMessages(ctx, f.rider.ID, f.chatID, 0)
	require.ErrorIs(t, err, rides.ErrForbidden)

	require.NoError(t, f.engine.JoinRide(ctx, f.rider.ID, f.rideID))

	sent, err := f.chat.SendMessage(ctx, f.rider.ID, f.chatID, "  Привет, буду у вокзала  ")
	require.NoError(t, err)
	assert.Equal(t, "Привет, буду у вокзала", sent.Content)
	assert.Equal(t, "Rider", sent.Author.Fullname)

	_, err = f.chat.SendMessage(ctx, f.driver.ID, f.chatID, "Договорились")
	require.NoError(t, err)

	messages, err := f.chat.ListMessages(ctx, f.driver.ID, f.chatID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Привет, буду у вокзала", messages[0].Content)
	assert.Equal(t, "Договорились", messages[1].Content)

	last, err := f.chat.ListMessages(ctx, f.driver.ID, f.chatID, 1)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "Договорились", last[0].Content)

	chats, err := f.chat.ListChats(ctx, f.rider.ID)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, f.rideID, chats[0].RideID)
	assert.Equal(t, 1, chats[0].SeatsLeft)
	require.NotNil(t, chats[0].LastMessage)
	assert.Equal(t, "Договорились", chats[0].LastMessage.Content)

	// после выхода история остается доступной
	require.NoError(t, f.engine.LeaveRide(ctx, f.rider.ID, f.rideID))
	_, err = f.chat.ListMessages(ctx, f.rider.ID, f.chatID, 0)
	require.NoError(t, err)
}

func TestRemovedPassengerLosesChat(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.engine.JoinRide(ctx, f.rider.ID, f.rideID))
	var membership models.Passenger
	require.NoError(t, f.db.Where("ride_id = ? AND user_id = ?", f.rideID, f.rider.ID).First(&membership).Error)
	require.NoError(t, f.engine.RemovePassenger(ctx, f.driver.ID, membership.ID))

	_, err := f.chat.ListMessages(ctx, f.rider.ID, f.chatID, 0)
	require.ErrorIs(t, err, rides.ErrForbidden)

	chats, err := f.chat.ListChats(ctx, f.rider.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestSendMessageRejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.chat.SendMessage(ctx, f.driver.ID, f.chatID, "   ")
	require.ErrorIs(t, err, rides.ErrValidationFailed)

	_, err = f.chat.SendMessage(ctx, f.driver.ID, f.chatID, strings.Repeat("я", 2001))
	require.ErrorIs(t, err, rides.ErrValidationFailed)

	_, err = f.chat.SendMessage(ctx, f.driver.ID, 999, "Есть кто?")
	require.ErrorIs(t, err, rides.ErrNotFound)

	_, err = f.engine.AutoCompleteDueRides(ctx, departure)
	require.NoError(t, err)

	_, err = f.chat.SendMessage(ctx, f.driver.ID, f.chatID, "Спасибо за поездку")
	require.ErrorIs(t, err, rides.ErrLifecycleClosed)

	var n int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteRideRemovesChat(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.chat.SendMessage(ctx, f.driver.ID, f.chatID, "Выезд в девять")
	require.NoError(t, err)
	require.NoError(t, f.engine.DeleteRide(ctx, f.driver.ID, f.rideID))

	_, err = f.chat.ListMessages(ctx, f.driver.ID, f.chatID, 0)
	require.ErrorIs(t, err, rides.ErrNotFound)

	var n int64
	require.NoError(t, f.db.Model(&models.Message{}).Count(&n).Error)
	assert.Zero(t, n)
}
