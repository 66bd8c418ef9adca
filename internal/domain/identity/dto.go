package identity

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
	Role     Role   `json:"role" validate:"required,oneof=client creative visitor"`
	Country  string `json:"country" validate:"max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminSeed describes the bootstrap administrator account.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
	Country  string
}

type AuthResult struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}
