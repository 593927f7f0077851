package in

import (
	"context"

	sessiondto "storefront/internal/modules/session/dto"
	sessionin "storefront/internal/modules/session/port/in"
)

type TUIHandler struct {
	usecase sessionin.Usecase
}

func NewTUIHandler(usecase sessionin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Snapshot(ctx context.Context) sessiondto.StateOutput {
	return h.usecase.Snapshot(ctx)
}

func (h TUIHandler) Resize(ctx context.Context, width, height int) error {
	return h.usecase.SetViewport(ctx, sessiondto.ViewportInput{Width: width, Height: height})
}

func (h TUIHandler) SetModalOpen(ctx context.Context, open bool) {
	h.usecase.SetModalOpen(ctx, open)
}

func (h TUIHandler) Watch(fn func(sessiondto.StateOutput)) func() {
	return h.usecase.Watch(fn)
}
