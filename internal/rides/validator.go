package rides

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"rideshare-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// markupChars символы, запрещенные в описании поездки
const markupChars = "<>{}"

// Validator проверяет запрошенное изменение против снимка состояния поездки.
// Ничего не пишет в хранилище: движок вызывает его на снимке, прочитанном
// под блокировкой строки поездки.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("nomarkup", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), markupChars)
	})
	return &Validator{validate: v}
}

// JoinSnapshot состояние, на котором принимается решение о присоединении
type JoinSnapshot struct {
	Ride          *models.Ride
	UserID        uint
	UserGender    string
	AlreadyMember bool
}

type LeaveSnapshot struct {
	Ride       *models.Ride
	UserID     uint
	Membership *models.Passenger
}

type RemoveSnapshot struct {
	Ride        *models.Ride
	RequesterID uint
	Membership  *models.Passenger
}

type DeleteSnapshot struct {
	Ride        *models.Ride
	RequesterID uint
}

// NormalizeCreate приводит поля к каноническому виду перед проверкой
func NormalizeCreate(req models.RideCreate) models.RideCreate {
	req.Source = strings.TrimSpace(req.Source)
	req.Destination = strings.TrimSpace(req.Destination)
	req.CarClass = strings.TrimSpace(req.CarClass)
	req.CarModel = strings.TrimSpace(req.CarModel)
	req.Description = strings.TrimSpace(req.Description)
	req.GenderPref = models.GenderPref(strings.ToLower(strings.TrimSpace(string(req.GenderPref))))
	if req.GenderPref == "" {
		req.GenderPref = models.GenderPrefAny
	}
	req.DepartureAt = req.DepartureAt.UTC()
	return req
}

// CheckCreate проверяет поля новой поездки. Возвращает ошибку по первому
// некорректному полю.
func (v *Validator) CheckCreate(req models.RideCreate) error {
	if req.DepartureAt.IsZero() {
		return validationError("departure_at", "обязательное поле")
	}

	if err := v.validate.Struct(req); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return validationError(fe.Field(), fieldMessage(fe))
		}
		return validationError("", err.Error())
	}

	if strings.EqualFold(req.Source, req.Destination) {
		return validationError("destination", "пункт назначения совпадает с пунктом отправления")
	}

	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("минимальная длина %s символов", fe.Param())
		}
		return fmt.Sprintf("значение должно быть не меньше %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("максимальная длина %s символов", fe.Param())
		}
		return fmt.Sprintf("значение должно быть не больше %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("допустимые значения: %s", fe.Param())
	case "nomarkup":
		return "поле не должно содержать символы разметки"
	}
	return "некорректное значение"
}

// CheckJoin порядок проверок: существование, статус, места, повтор, пол
func (v *Validator) CheckJoin(s JoinSnapshot) error {
	if s.Ride == nil {
		return newError(KindNotFound, "поездка не найдена")
	}
	if s.Ride.IsCompleted() {
		return newError(KindLifecycleClosed, "поездка уже завершена")
	}
	if s.Ride.SeatsLeft <= 0 {
		return newError(KindCapacityExceeded, "в поездке нет свободных мест")
	}
	if s.AlreadyMember {
		return newError(KindDuplicateMembership, "вы уже участвуете в этой поездке")
	}
	if !GenderAllowed(s.Ride.GenderPref, s.UserGender) {
		return newError(KindPreferenceMismatch,
			fmt.Sprintf("поездка доступна только для пассажиров с полом: %s", s.Ride.GenderPref))
	}
	return nil
}

// GenderAllowed сравнивает предпочтение поездки с полом пользователя без учета регистра
func GenderAllowed(pref models.GenderPref, gender string) bool {
	if pref == "" || pref == models.GenderPrefAny {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(gender), string(pref))
}

func (v *Validator) CheckLeave(s LeaveSnapshot) error {
	if s.Ride == nil {
		return newError(KindNotFound, "поездка не найдена")
	}
	if s.Membership == nil {
		return newError(KindNotFound, "вы не участвуете в этой поездке")
	}
	if s.Ride.IsCompleted() {
		return newError(KindLifecycleClosed, "поездка уже завершена")
	}
	if s.Ride.CreatorID == s.UserID {
		return newError(KindForbidden, "создатель не может покинуть поездку, её можно только удалить")
	}
	return nil
}

func (v *Validator) CheckRemove(s RemoveSnapshot) error {
	if s.Ride == nil || s.Membership == nil {
		return newError(KindNotFound, "пассажир не найден")
	}
	if s.Ride.CreatorID != s.RequesterID {
		return newError(KindForbidden, "только создатель поездки может удалять пассажиров")
	}
	if s.Ride.IsCompleted() {
		return newError(KindLifecycleClosed, "поездка уже завершена")
	}
	if s.Membership.UserID == s.Ride.CreatorID {
		return newError(KindForbidden, "нельзя удалить создателя поездки")
	}
	return nil
}

func (v *Validator) CheckDelete(s DeleteSnapshot) error {
	if s.Ride == nil {
		return newError(KindNotFound, "поездка не найдена")
	}
	if s.Ride.CreatorID != s.RequesterID {
		return newError(KindForbidden, "только создатель поездки может её удалить")
	}
	if s.Ride.IsCompleted() {
		return newError(KindLifecycleClosed, "поездка уже завершена")
	}
	return nil
}
