package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func zapTestLogger() *zap.Logger {
	return zap.NewNop()
}

func newTestValidator() *validator.Validate {
	return validator.New()
}
