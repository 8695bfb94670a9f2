package chat

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"rideshare-backend/internal/models"
	"rideshare-backend/internal/rides"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxMessageLength = 2000
	maxPageSize      = 100
)

// Service чат поездки. Членство в чате ведет движок поездок, здесь только
// чтение сообщений и отправка новых.
type Service struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewService(db *gorm.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// ListChats чаты, где пользователь состоит, с последним сообщением
func (s *Service) ListChats(ctx context.Context, userID uint) ([]models.ChatResponse, error) {
	db := s.db.WithContext(ctx)

	var rooms []models.ChatRoom
	err := db.
		Joins("JOIN chat_room_users ON chat_room_users.chat_room_id = chat_rooms.id").
		Where("chat_room_users.user_id = ?", userID).
		Find(&rooms).Error
	if err != nil {
		return nil, rides.StoreError(err)
	}
	if len(rooms) == 0 {
		return []models.ChatResponse{}, nil
	}

	rideIDs := make([]uint, 0, len(rooms))
	for _, room := range rooms {
		rideIDs = append(rideIDs, room.RideID)
	}

	var rideList []models.Ride
	if err := db.Where("id IN ?", rideIDs).Order("departure_at ASC").Find(&rideList).Error; err != nil {
		return nil, rides.StoreError(err)
	}

	roomByRide := make(map[uint]uint, len(rooms))
	for _, room := range rooms {
		roomByRide[room.RideID] = room.ID
	}

	response := make([]models.ChatResponse, 0, len(rideList))
	for _, ride := range rideList {
		roomID := roomByRide[ride.ID]
		last, err := s.lastMessage(db, roomID)
		if err != nil {
			return nil, rides.StoreError(err)
		}
		response = append(response, models.ChatResponse{
			ID:          roomID,
			RideID:      ride.ID,
			Source:      ride.Source,
			Destination: ride.Destination,
			DepartureAt: ride.DepartureAt,
			SeatsLeft:   ride.SeatsLeft,
			Status:      ride.Status,
			LastMessage: last,
		})
	}
	return response, nil
}

func (s *Service) lastMessage(db *gorm.DB, roomID uint) (*models.MessageResponse, error) {
	var messages []models.Message
	if err := db.Preload("Author").
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	m := toMessageResponse(&messages[0])
	return &m, nil
}

// ListMessages сообщения чата в хронологическом порядке; limit <= 0 - последние 100
func (s *Service) ListMessages(ctx context.Context, userID, roomID uint, limit int) ([]models.MessageResponse, error) {
	db := s.db.WithContext(ctx)

	if _, err := s.memberRoom(db, userID, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	// последние limit сообщений, затем разворот в хронологию
	var messages []models.Message
	if err := db.Preload("Author").
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, rides.StoreError(err)
	}

	response := make([]models.MessageResponse, len(messages))
	for i := range messages {
		response[len(messages)-1-i] = toMessageResponse(&messages[i])
	}
	return response, nil
}

// SendMessage добавляет сообщение. В чат завершенной поездки писать нельзя.
func (s *Service) SendMessage(ctx context.Context, userID, roomID uint, content string) (*models.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &rides.Error{Kind: rides.KindValidationFailed, Field: "content", Message: "сообщение не может быть пустым"}
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, &rides.Error{Kind: rides.KindValidationFailed, Field: "content", Message: "максимальная длина 2000 символов"}
	}

	var message models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := s.memberRoom(tx, userID, roomID)
		if err != nil {
			return err
		}

		// блокировка поездки упорядочивает отправку относительно автозавершения и удаления
		var ride models.Ride
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ride, room.RideID).Error; err != nil {
			return err
		}
		if ride.IsCompleted() {
			return rides.NewError(rides.KindLifecycleClosed, "поездка завершена, чат доступен только для чтения")
		}

		message = models.Message{ChatRoomID: roomID, AuthorID: userID, Content: content}
		if err := tx.Omit(clause.Associations).Create(&message).Error; err != nil {
			return err
		}
		return tx.First(&message.Author, userID).Error
	})
	if err != nil {
		err = rides.StoreError(err)
		if rides.KindOf(err) == rides.KindStoreUnavailable {
			s.logger.Error("ошибка отправки сообщения", "chat_id", roomID, "user_id", userID, "error", err)
		}
		return nil, err
	}

	s.logger.Info("сообщение отправлено", "chat_id", roomID, "user_id", userID, "message_id", message.ID)
	response := toMessageResponse(&message)
	return &response, nil
}

// memberRoom возвращает чат, если пользователь в нем состоит
func (s *Service) memberRoom(db *gorm.DB, userID, roomID uint) (*models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := db.Where("id = ?", roomID).Limit(1).Find(&rooms).Error; err != nil {
		return nil, rides.StoreError(err)
	}
	if len(rooms) == 0 {
		return nil, rides.NewError(rides.KindNotFound, "чат не найден")
	}

	var n int64
	if err := db.Model(&models.ChatRoomUser{}).
		Where("chat_room_id = ? AND user_id = ?", roomID, userID).
		Count(&n).Error; err != nil {
		return nil, rides.StoreError(err)
	}
	if n == 0 {
		return nil, rides.NewError(rides.KindForbidden, "вы не состоите в этом чате")
	}
	return &rooms[0], nil
}

func toMessageResponse(m *models.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:        m.ID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Author:    m.Author.Brief(),
	}
}
