package session

// LoginInput captures the credentials sent to the login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput captures the fields sent to the registration endpoint.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=5"`
}

// LoginResponse carries the bearer token minted for the session.
type LoginResponse struct {
	Token string `json:"token"`
}

// RegisterResponse describes the account created by registration. Registration
// does not authenticate; the caller logs in afterwards.
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type wireUser struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Phone     *string `json:"phone"`
	CreatedAt *string `json:"created_at"`
}

// User is the profile of the authenticated account.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      string
	Phone     string
	CreatedAt string
}

func mapUser(w wireUser) User {
	user := User{
		ID:    w.ID,
		Name:  w.Name,
		Email: w.Email,
		Role:  w.Role,
	}
	if w.Phone != nil {
		user.Phone = *w.Phone
	}
	if w.CreatedAt != nil {
		user.CreatedAt = *w.CreatedAt
	}
	return user
}
