package dto

type LoginInput struct {
	Email string
}

type IdentityOutput struct {
	Email string
}

type GateOutput struct {
	Allowed bool
	Cleared bool
	Email   string
}
