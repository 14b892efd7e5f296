package chat

import (
	"github.com/AntonStoeckl/event-revisions-go/aggregate"
)

// Email is the state of the email aggregate.
type Email struct {
	Value       string
	ConfirmedBy string
}

// IsConfirmed reports whether someone confirmed the address.
func (e Email) IsConfirmed() bool {
	return e.ConfirmedBy != ""
}

// EmailHandlers folds transformed email streams into an Email.
var EmailHandlers = aggregate.NewHandlers[Email]().
	OnInit(EmailAddedEventName, aggregate.InitWith(func(ev EmailAdded) (Email, error) {
		return Email{Value: ev.Email}, nil
	})).
	On(EmailConfirmedEventName, aggregate.ApplyWith(func(state Email, ev EmailConfirmed) (Email, error) {
		state.ConfirmedBy = ev.ConfirmedBy
		return state, nil
	}))
