package auth

import "context"

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

type ctxKey int

const (
	userNameKey ctxKey = iota
	userRoleKey
)

func SetAuthContext(ctx context.Context, userName, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, userName)
	return context.WithValue(ctx, userRoleKey, role)
}

func UserName(ctx context.Context) string {
	v, _ := ctx.Value(userNameKey).(string)
	return v
}

func Role(ctx context.Context) string {
	v, _ := ctx.Value(userRoleKey).(string)
	return v
}

func IsAdmin(ctx context.Context) bool {
	return Role(ctx) == RoleAdmin
}
