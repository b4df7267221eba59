package account

import "github.com/uptrace/bun"

type Account struct {
	bun.BaseModel `bun:"table:account,alias:a"`

	AccountID int    `bun:"account_id,pk,autoincrement" json:"account_id"`
	Username  string `bun:"username,unique,notnull" json:"username" validate:"required"`
	Password  string `bun:"password,notnull" json:"password" validate:"min=4"`
}

// AccountRequest is the body of POST /register and POST /login.
// account_id is accepted for compatibility and ignored.
type AccountRequest struct {
	AccountID int    `json:"account_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func (r AccountRequest) ToAccount() *Account {
	return &Account{
		Username: r.Username,
		Password: r.Password,
	}
}

// RegisteredEvent is the payload of the account.registered event; the
// password is never published.
type RegisteredEvent struct {
	AccountID int    `json:"account_id"`
	Username  string `json:"username"`
}
