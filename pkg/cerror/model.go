package cerror

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type CustomError struct {
	HttpStatusCode int
	LogMessage     string
	LogSeverity    zapcore.Level
	LogFields      []zapcore.Field

	// Message overrides LogMessage in the response body when set.
	// It can be a string or a list of field error messages.
	Message        interface{}
	ResponseFields map[string]interface{}
}

func (cerr *CustomError) Error() string {
	return cerr.LogMessage
}

func (cerr *CustomError) SetSeverity(severity zapcore.Level) *CustomError {
	cerr.LogSeverity = severity
	return cerr
}

func (cerr *CustomError) SetMessage(message interface{}) *CustomError {
	cerr.Message = message
	return cerr
}

func (cerr *CustomError) SetResponseFields(fields map[string]interface{}) *CustomError {
	cerr.ResponseFields = fields
	return cerr
}

func (cerr *CustomError) ResponseMessage() interface{} {
	if cerr.Message != nil {
		return cerr.Message
	}

	return cerr.LogMessage
}

func NewError(httpStatusCode int, logMessage string, logFields ...zap.Field) *CustomError {
	return &CustomError{
		HttpStatusCode: httpStatusCode,
		LogMessage:     logMessage,
		LogSeverity:    zapcore.ErrorLevel,
		LogFields:      logFields,
	}
}
