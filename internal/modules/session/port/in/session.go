package in

import (
	"context"

	"storefront/internal/modules/session/dto"
)

type Usecase interface {
	Snapshot(ctx context.Context) dto.StateOutput
	SetViewport(ctx context.Context, input dto.ViewportInput) error
	SetModalOpen(ctx context.Context, open bool)
	Reload(ctx context.Context) dto.StateOutput
	Watch(fn func(dto.StateOutput)) (cancel func())
}
