package shared

// Wire types of the JSON API. Field names follow the ones the browser
// scripts send and read.

type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token   string `json:"token"`
	Email   string `json:"email"`
	Expires int64  `json:"expires"`
}

type RegisterRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUpdateRequest struct {
	Fullname string `json:"fullname,omitempty"`
	Password string `json:"password,omitempty"`
}

// UserRecord is what the users collection stores.
type UserRecord struct {
	Fullname       string `json:"fullname"`
	Email          string `json:"email"`
	HashedPassword string `json:"hashedPassword"`
	RegisterDate   int64  `json:"registerDate"`
}

// UserView is a UserRecord without secrets.
type UserView struct {
	Fullname     string `json:"fullname"`
	Email        string `json:"email"`
	RegisterDate int64  `json:"registerDate"`
}

func (u UserRecord) View() UserView {
	return UserView{Fullname: u.Fullname, Email: u.Email, RegisterDate: u.RegisterDate}
}

// TokenRecord is what the tokens collection stores, keyed by ID.
type TokenRecord struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Expires int64  `json:"expires"`
}

type Service struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   int64  `json:"createdAt"`
}

type ServiceRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

type ServicesResponse struct {
	Services []Service `json:"services"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
