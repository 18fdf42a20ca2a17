package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrInvalidUserID           = fmt.Errorf("недопустимый UserID")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ValidationError - ошибка входных данных. Вина вызывающей стороны, не повторяется.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UnavailableError - оборудование недоступно для бронирования
// (административный статус не 'available').
type UnavailableError struct {
	EquipmentID uint64
	Status      string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("оборудование %d недоступно для бронирования (статус: %s)", e.EquipmentID, e.Status)
}

// ConflictError - запрошенный интервал пересекается с активной бронью.
// Вызывающая сторона может повторить запрос с другим интервалом.
type ConflictError struct {
	EquipmentID uint64
	BookingID   uint64 // бронь, с которой обнаружено пересечение
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("оборудование %d уже забронировано на этот интервал (бронь %d)", e.EquipmentID, e.BookingID)
}

// InvalidStateError - недопустимый переход в машине состояний брони.
type InvalidStateError struct {
	Attempted string // запрошенный переход
	Current   string // текущий статус
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("переход '%s' недопустим из статуса '%s'", e.Attempted, e.Current)
}

// GenerationError - сбой внешнего генератора контента (квота, таймаут).
// Обрабатывается локально: логируется, единица работы пропускается.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("ошибка генерации контента: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TransportError - сбой внешнего транспорта сообщений. Никогда не откатывает
// и не блокирует переход брони.
type TransportError struct {
	Recipient string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("не удалось отправить сообщение '%s': %v", e.Recipient, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HttpError - ошибка для HTTP-слоя с кодом ответа и контекстом для логирования.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: context,
	}
}
