package in

import (
	"context"

	authdto "storefront/internal/modules/auth/dto"
	authin "storefront/internal/modules/auth/port/in"
)

type CLIHandler struct {
	usecase authin.Usecase
}

func NewCLIHandler(usecase authin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (authdto.StatusOutput, error) {
	return h.usecase.Login(ctx, authdto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Logout(ctx context.Context) (authdto.StatusOutput, error) {
	return h.usecase.Logout(ctx)
}

func (h CLIHandler) Status(ctx context.Context) authdto.StatusOutput {
	return h.usecase.Status(ctx)
}
