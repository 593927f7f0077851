package in

import (
	"context"

	"storefront/internal/modules/auth/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.StatusOutput, error)
	Logout(ctx context.Context) (dto.StatusOutput, error)
	Status(ctx context.Context) dto.StatusOutput
}
