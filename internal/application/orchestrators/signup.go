package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "kupu/internal/adapters/email"
	"kupu/internal/domain/account"
)

// AccountStoreForSignup defines the store interface needed by Signup.
type AccountStoreForSignup interface {
	Save(ctx context.Context, a account.Account) error
	GetRoleByName(ctx context.Context, name string) (account.Role, error)
}

// SignupInput carries the raw signup form values.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	AccountStore AccountStoreForSignup
	EmailSender  emailAdapter.Sender // optional, nil disables the welcome email
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteSignup registers a new account with the student role.
// All validation happens before anything is written: names are
// title-cased and must be non-numeric, the email is lower-cased, the
// passwords must match and meet the minimum length.
// POST: Account saved with a bcrypt password hash; welcome email is
// best-effort and never fails the signup
// INVARIANT: Emails are unique
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (account.Account, error) {
	acct := account.Account{
		ID:        deps.GenerateID(),
		FirstName: account.NormalizeName(input.FirstName),
		LastName:  account.NormalizeName(input.LastName),
		Email:     account.NormalizeEmail(input.Email),
		CreatedAt: deps.Now(),
	}

	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if input.Password != input.ConfirmPassword {
		return account.Account{}, account.ErrPasswordMismatch
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}

	role, err := deps.AccountStore.GetRoleByName(ctx, account.RoleStudent)
	if err != nil {
		return account.Account{}, err
	}
	acct.RoleID = role.ID

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", role.Name)

	if deps.EmailSender != nil {
		_, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
			To:      []string{acct.Email},
			Subject: "Nau mai ki te papakupu",
			HTML: fmt.Sprintf("<p>Kia ora %s,</p><p>Your dictionary account is ready. Sign in with %s to start exploring kupu.</p>",
				acct.FirstName, acct.Email),
		})
		if err != nil {
			slog.Warn("auth_event", "event", "welcome_email_failed", "email", acct.Email, "error", err.Error())
		}
	}

	return acct, nil
}
