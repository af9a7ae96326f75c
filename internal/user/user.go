package user

import (
	"time"

	"github.com/shopspring/decimal"

	userDatamodel "github.com/worktrack/payroll/internal/core/datamodel/user"

	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
)

// User is the account entity without the credential hash. Handlers only
// ever see this shape; the hash stays inside the service and repository.
type User struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the roster row: the account plus the rate in effect today.
type Profile struct {
	User
	CurrentRate decimal.Decimal `json:"current_rate"`
}

// AccountDetail backs GET /users/me: the full rate history and how many
// tracks the account has logged.
type AccountDetail struct {
	User
	CurrentRate decimal.Decimal `json:"current_rate"`
	Rates       []*rate.Rate    `json:"rates"`
	TrackCount  int64           `json:"track_count"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		Position:  u.Position,
		Role:      auth.Role(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
