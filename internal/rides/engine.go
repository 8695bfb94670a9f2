package rides

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rideshare-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Engine выполняет атомарные операции над поездками, пассажирами и чатами.
// Каждая операция - одна транзакция; изменения, влияющие на места, берут
// блокировку строки поездки (SELECT ... FOR UPDATE) и держат её до commit/rollback.
type Engine struct {
	db        *gorm.DB
	validator *Validator
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Engine)

// WithClock подменяет источник времени (для автозавершения и тестов)
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{
		db:        db,
		validator: NewValidator(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// inTx выполняет fn в транзакции и приводит ошибку к таксономии движка.
// Ошибка после успешного fn означает сбой commit: исход неизвестен.
func (e *Engine) inTx(ctx context.Context, operation string, fn func(tx *gorm.DB) error) error {
	start := time.Now()
	applied := false

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		applied = true
		return nil
	})

	if err != nil && applied {
		err = &Error{Kind: KindStoreUnavailable, Message: "исход фиксации неизвестен, перечитайте состояние поездки", Err: err}
	}
	err = storeError(err)

	if KindOf(err) == KindStoreUnavailable {
		e.logger.Error("ошибка транзакции", "operation", operation, "error", err)
	}
	observe(operation, err, time.Since(start))
	return err
}

// lockRide читает поездку с эксклюзивной блокировкой строки; nil - поездки нет
func lockRide(tx *gorm.DB, rideID uint) (*models.Ride, error) {
	var ride models.Ride
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ride, rideID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func findMembership(tx *gorm.DB, rideID, userID uint) (*models.Passenger, error) {
	var passengers []models.Passenger
	if err := tx.Where("ride_id = ? AND user_id = ?", rideID, userID).Limit(1).Find(&passengers).Error; err != nil {
		return nil, err
	}
	if len(passengers) == 0 {
		return nil, nil
	}
	return &passengers[0], nil
}

func findMembershipByID(tx *gorm.DB, membershipID uint) (*models.Passenger, error) {
	var passengers []models.Passenger
	if err := tx.Where("id = ?", membershipID).Limit(1).Find(&passengers).Error; err != nil {
		return nil, err
	}
	if len(passengers) == 0 {
		return nil, nil
	}
	return &passengers[0], nil
}

func findUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var users []models.User
	if err := tx.Where("id = ?", userID).Limit(1).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func chatRoomID(tx *gorm.DB, rideID uint) (uint, error) {
	var rooms []models.ChatRoom
	if err := tx.Where("ride_id = ?", rideID).Limit(1).Find(&rooms).Error; err != nil {
		return 0, err
	}
	if len(rooms) == 0 {
		return 0, nil
	}
	return rooms[0].ID, nil
}

func adjustSeats(tx *gorm.DB, rideID uint, delta int) error {
	q := tx.Model(&models.Ride{}).Where("id = ?", rideID)
	expr := gorm.Expr("seats_left + ?", delta)
	if delta < 0 {
		q = q.Where("seats_left >= ?", -delta)
	} else {
		q = q.Where("seats_left + ? <= total_seats", delta)
	}
	res := q.Updates(map[string]interface{}{
		"seats_left": expr,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		if delta < 0 {
			return newError(KindCapacityExceeded, "в поездке нет свободных мест")
		}
		return errors.New("нарушен учет мест: seats_left превысил total_seats")
	}
	return nil
}

// CreateRide создает поездку, её чат, членство создателя в чате и место создателя.
// Все четыре вставки фиксируются вместе.
func (e *Engine) CreateRide(ctx context.Context, creatorID uint, req models.RideCreate) (uint, error) {
	req = NormalizeCreate(req)
	if err := e.validator.CheckCreate(req); err != nil {
		observe("create", err, 0)
		return 0, err
	}

	ride := models.Ride{
		Source:          req.Source,
		Destination:     req.Destination,
		DepartureAt:     req.DepartureAt,
		CarClass:        req.CarClass,
		CarModel:        req.CarModel,
		TotalSeats:      req.TotalSeats,
		SeatsLeft:       req.TotalSeats - 1,
		RideCost:        req.RideCost,
		GenderPref:      req.GenderPref,
		AirConditioning: req.AirConditioning,
		Description:     req.Description,
		Status:          models.RideStatusOngoing,
		CreatorID:       creatorID,
	}

	err := e.inTx(ctx, "create", func(tx *gorm.DB) error {
		creator, err := findUser(tx, creatorID)
		if err != nil {
			return err
		}
		if creator == nil {
			return newError(KindNotFound, "пользователь не найден")
		}

		if err := tx.Omit(clause.Associations).Create(&ride).Error; err != nil {
			return err
		}

		room := models.ChatRoom{RideID: ride.ID}
		if err := tx.Omit(clause.Associations).Create(&room).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.ChatRoomUser{ChatRoomID: room.ID, UserID: creatorID}).Error; err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Create(&models.Passenger{UserID: creatorID, RideID: ride.ID}).Error
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("поездка создана", "ride_id", ride.ID, "creator_id", creatorID, "total_seats", ride.TotalSeats)
	return ride.ID, nil
}

// JoinRide добавляет пользователя в поездку. Блокировка строки поездки
// берется первой и держится до фиксации, поэтому параллельные присоединения
// к одной поездке выполняются последовательно.
func (e *Engine) JoinRide(ctx context.Context, userID, rideID uint) error {
	err := e.inTx(ctx, "join", func(tx *gorm.DB) error {
		ride, err := lockRide(tx, rideID)
		if err != nil {
			return err
		}

		user, err := findUser(tx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return newError(KindNotFound, "пользователь не найден")
		}

		var membership *models.Passenger
		if ride != nil {
			if membership, err = findMembership(tx, rideID, userID); err != nil {
				return err
			}
		}

		if err := e.validator.CheckJoin(JoinSnapshot{
			Ride:          ride,
			UserID:        userID,
			UserGender:    user.Gender,
			AlreadyMember: membership != nil,
		}); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(&models.Passenger{UserID: userID, RideID: rideID}).Error; err != nil {
			return err
		}

		roomID, err := chatRoomID(tx, rideID)
		if err != nil {
			return err
		}
		if roomID != 0 {
			// Членство в чате могло сохраниться после выхода из поездки
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.ChatRoomUser{ChatRoomID: roomID, UserID: userID}).Error; err != nil {
				return err
			}
		}

		return adjustSeats(tx, rideID, -1)
	})
	if err != nil {
		return err
	}

	e.logger.Info("пассажир присоединился к поездке", "ride_id", rideID, "user_id", userID)
	return nil
}

// LeaveRide освобождает место пользователя. Членство в чате сохраняется,
// чтобы осталась доступна история переписки.
func (e *Engine) LeaveRide(ctx context.Context, userID, rideID uint) error {
	err := e.inTx(ctx, "leave", func(tx *gorm.DB) error {
		ride, err := lockRide(tx, rideID)
		if err != nil {
			return err
		}

		var membership *models.Passenger
		if ride != nil {
			if membership, err = findMembership(tx, rideID, userID); err != nil {
				return err
			}
		}

		if err := e.validator.CheckLeave(LeaveSnapshot{Ride: ride, UserID: userID, Membership: membership}); err != nil {
			return err
		}

		if err := tx.Delete(&models.Passenger{}, membership.ID).Error; err != nil {
			return err
		}
		return adjustSeats(tx, rideID, 1)
	})
	if err != nil {
		return err
	}

	e.logger.Info("пассажир покинул поездку", "ride_id", rideID, "user_id", userID)
	return nil
}

// RemovePassenger удаляет пассажира по решению создателя поездки.
// Удаленный пассажир теряет и доступ к чату.
func (e *Engine) RemovePassenger(ctx context.Context, requesterID, membershipID uint) error {
	var removed models.Passenger

	err := e.inTx(ctx, "remove_passenger", func(tx *gorm.DB) error {
		// Сначала узнаем поездку, потом блокируем её и перечитываем запись под блокировкой
		membership, err := findMembershipByID(tx, membershipID)
		if err != nil {
			return err
		}
		if membership == nil {
			return newError(KindNotFound, "пассажир не найден")
		}

		ride, err := lockRide(tx, membership.RideID)
		if err != nil {
			return err
		}
		if membership, err = findMembershipByID(tx, membershipID); err != nil {
			return err
		}

		if err := e.validator.CheckRemove(RemoveSnapshot{Ride: ride, RequesterID: requesterID, Membership: membership}); err != nil {
			return err
		}
		removed = *membership

		if err := tx.Delete(&models.Passenger{}, membership.ID).Error; err != nil {
			return err
		}

		roomID, err := chatRoomID(tx, ride.ID)
		if err != nil {
			return err
		}
		if roomID != 0 {
			if err := tx.Where("chat_room_id = ? AND user_id = ?", roomID, membership.UserID).
				Delete(&models.ChatRoomUser{}).Error; err != nil {
				return err
			}
		}

		return adjustSeats(tx, ride.ID, 1)
	})
	if err != nil {
		return err
	}

	e.logger.Info("пассажир удален из поездки", "ride_id", removed.RideID, "user_id", removed.UserID, "requester_id", requesterID)
	return nil
}

// DeleteRide удаляет поездку вместе с чатом, сообщениями и всеми местами
func (e *Engine) DeleteRide(ctx context.Context, requesterID, rideID uint) error {
	err := e.inTx(ctx, "delete", func(tx *gorm.DB) error {
		ride, err := lockRide(tx, rideID)
		if err != nil {
			return err
		}

		if err := e.validator.CheckDelete(DeleteSnapshot{Ride: ride, RequesterID: requesterID}); err != nil {
			return err
		}

		roomID, err := chatRoomID(tx, rideID)
		if err != nil {
			return err
		}
		if roomID != 0 {
			if err := tx.Where("chat_room_id = ?", roomID).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chat_room_id = ?", roomID).Delete(&models.ChatRoomUser{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.ChatRoom{}, roomID).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("ride_id = ?", rideID).Delete(&models.Passenger{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Ride{}, rideID).Error
	})
	if err != nil {
		return err
	}

	e.logger.Info("поездка удалена", "ride_id", rideID, "requester_id", requesterID)
	return nil
}
