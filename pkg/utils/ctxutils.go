package utils

import (
	"context"

	"lab-system/pkg/contextkeys"
	apperrors "lab-system/pkg/errors"
)

// UserIDFromCtx достает UserID, положенный auth-middleware.
func UserIDFromCtx(ctx context.Context) (uint64, error) {
	id, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || id == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return id, nil
}

// RoleFromCtx достает роль пользователя из контекста запроса.
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(contextkeys.UserRoleKey).(string)
	return role
}
