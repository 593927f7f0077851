package usecase

import (
	"context"

	"storefront/internal/modules/auth/dto"
	authin "storefront/internal/modules/auth/port/in"
	authout "storefront/internal/modules/auth/port/out"
	"storefront/internal/modules/auth/service"
)

type Interactor struct {
	svc  *service.AuthService
	sync authout.UserSync
}

func NewInteractor(svc *service.AuthService, sync authout.UserSync) authin.Usecase {
	return &Interactor{svc: svc, sync: sync}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.StatusOutput, error) {
	if err := i.svc.Login(ctx, input.Username, input.Password); err != nil {
		return i.Status(ctx), err
	}
	i.syncUser(ctx)
	return i.Status(ctx), nil
}

func (i *Interactor) Logout(ctx context.Context) (dto.StatusOutput, error) {
	if err := i.svc.Logout(ctx); err != nil {
		return i.Status(ctx), err
	}
	i.syncUser(ctx)
	return i.Status(ctx), nil
}

func (i *Interactor) Status(ctx context.Context) dto.StatusOutput {
	return dto.StatusOutput{Authenticated: i.svc.IsAuthenticated(ctx)}
}

func (i *Interactor) syncUser(ctx context.Context) {
	if i.sync != nil {
		i.sync.SyncUser(ctx)
	}
}
