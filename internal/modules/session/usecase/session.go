package usecase

import (
	"context"
	"fmt"

	"storefront/internal/modules/session/domain"
	"storefront/internal/modules/session/dto"
	sessionin "storefront/internal/modules/session/port/in"
	"storefront/internal/modules/session/service"
	apperrors "storefront/internal/platform/errors"
)

type Interactor struct {
	store *service.Store
}

func NewInteractor(store *service.Store) sessionin.Usecase {
	return &Interactor{store: store}
}

func (i *Interactor) Snapshot(_ context.Context) dto.StateOutput {
	return i.toOutput(i.store.GetState())
}

func (i *Interactor) SetViewport(ctx context.Context, input dto.ViewportInput) error {
	if input.Width < 0 || input.Height < 0 {
		return fmt.Errorf("viewport %dx%d: %w", input.Width, input.Height, apperrors.ErrInvalidInput)
	}
	i.store.Dispatch(ctx, domain.Patch{}.WithViewport(domain.Viewport{Width: input.Width, Height: input.Height}))
	return nil
}

func (i *Interactor) SetModalOpen(ctx context.Context, open bool) {
	i.store.Dispatch(ctx, domain.Patch{}.WithModalOpen(open))
}

func (i *Interactor) Reload(ctx context.Context) dto.StateOutput {
	i.store.Reload(ctx)
	return i.Snapshot(ctx)
}

func (i *Interactor) Watch(fn func(dto.StateOutput)) func() {
	return i.store.Subscribe(func(state domain.SessionState) {
		fn(i.toOutput(state))
	})
}

func (i *Interactor) toOutput(state domain.SessionState) dto.StateOutput {
	out := dto.StateOutput{
		StoreID:        i.store.ID(),
		CartItems:      state.CartItemCount(),
		CartLines:      len(state.Cart),
		Purchases:      len(state.PurchaseHistory),
		TotalPurchases: state.TotalPurchases,
		TotalSpent:     state.TotalSpent,
		Authenticated:  state.Authenticated(),
		Width:          state.Viewport.Width,
		Height:         state.Viewport.Height,
		ModalOpen:      state.ModalOpen,
	}
	if state.UserData != nil {
		out.Profile = dto.ProfileOutput{
			Name:     state.UserData.Name,
			Email:    state.UserData.Email,
			Phone:    state.UserData.Phone,
			JoinDate: state.UserData.JoinDate,
		}
	}
	return out
}
