package apperr

import (
	"errors"
	"fmt"
)

// Error 是帶有代碼的領域錯誤
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New 以預設訊息建立錯誤
func New(code Code) *Error {
	return &Error{Code: code, Message: code.DefaultMessage()}
}

// Newf 以自訂訊息建立錯誤
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 將底層錯誤包成領域錯誤
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, Message: code.DefaultMessage(), Cause: err}
}

// WithMetadata 附加額外資訊，例如合法的類別清單
func (e *Error) WithMetadata(key, value string) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// GetCode 取出任意錯誤的代碼，非領域錯誤回傳 CodeUnknown
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode 判斷錯誤是否為指定代碼
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// Message 回傳可以直接顯示給使用者的訊息
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return CodeInternal.DefaultMessage()
}
