package ctxutil

import (
	"context"
	"time"
)

type adminDataKey struct{}

// AdminData identifies the authenticated admin session of a request.
type AdminData struct {
	Subject   string
	SessionID string
	ExpiresAt time.Time
}

func WithAdminData(ctx context.Context, ad *AdminData) context.Context {
	return context.WithValue(ctx, adminDataKey{}, ad)
}

func GetAdminData(ctx context.Context) *AdminData {
	val := ctx.Value(adminDataKey{})
	if ad, ok := val.(*AdminData); ok {
		return ad
	}
	return nil
}
