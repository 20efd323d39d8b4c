package models

// ValidationError: обязательное поле пустое или телефон некорректен.
// Message показывается пользователю как есть.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// DuplicateError: трек-номер уже отслеживается.
type DuplicateError struct {
	TrackingNumber string
}

func (e *DuplicateError) Error() string {
	return "This tracking number is already being tracked"
}
