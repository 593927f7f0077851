package dto

type LoginInput struct {
	Username string
	Password string
}

type StatusOutput struct {
	Authenticated bool
}
