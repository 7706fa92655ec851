package app

import (
	"github.com/desertthunder/vidhi/internal/models"
)

// Event is an input to a state machine.
type Event interface {
	event()
}

// Effect is work a state machine asks its front end to perform.
type Effect interface {
	effect()
}

// Entered is sent when the dashboard becomes the active view.
type Entered struct{}

// CategoryChanged selects a tab.
type CategoryChanged struct {
	Category models.Category
}

// FetchCompleted carries the result of a [FetchEffect].
type FetchCompleted struct {
	Category models.Category
	Updates  []models.Update
	Err      error
}

type ScrapeRequested struct{}

type ScrapeCompleted struct {
	Err error
}

// ClearRequested asks for confirmation before deleting every update.
type ClearRequested struct{}

type ClearCompleted struct {
	Err error
}

// DeleteRequested asks for confirmation before deleting one update.
type DeleteRequested struct {
	ID models.UpdateID
}

type DeleteCompleted struct {
	ID  models.UpdateID
	Err error
}

// Confirmed accepts the pending confirmation.
type Confirmed struct{}

// Cancelled drops the pending confirmation.
type Cancelled struct{}

// Dismissed clears the visible notice and error.
type Dismissed struct{}

type LogoutRequested struct{}

// LoginSubmitted carries the login form contents.
type LoginSubmitted struct {
	Username string
	Password string
}

// LoginCompleted carries the result of a [LoginEffect].
type LoginCompleted struct {
	Username string
	APIKey   string
	Err      error
}

type PasswordVisibilityToggled struct{}

func (Entered) event()                   {}
func (CategoryChanged) event()           {}
func (FetchCompleted) event()            {}
func (ScrapeRequested) event()           {}
func (ScrapeCompleted) event()           {}
func (ClearRequested) event()            {}
func (ClearCompleted) event()            {}
func (DeleteRequested) event()           {}
func (DeleteCompleted) event()           {}
func (Confirmed) event()                 {}
func (Cancelled) event()                 {}
func (Dismissed) event()                 {}
func (LogoutRequested) event()           {}
func (LoginSubmitted) event()            {}
func (LoginCompleted) event()            {}
func (PasswordVisibilityToggled) event() {}

// FetchEffect lists updates for one category.
type FetchEffect struct {
	Session  models.Session
	Category models.Category
	Limit    int
}

type ScrapeEffect struct {
	Session models.Session
}

type ClearEffect struct {
	Session models.Session
}

type DeleteEffect struct {
	Session models.Session
	ID      models.UpdateID
}

// LoginEffect exchanges credentials for an API key.
type LoginEffect struct {
	Username string
	Password string
}

// RedirectEffect switches the active view.
//
// Reason is recorded as activity when set.
type RedirectEffect struct {
	Route  Route
	Reason models.ActivityKind
}

func (FetchEffect) effect()    {}
func (ScrapeEffect) effect()   {}
func (ClearEffect) effect()    {}
func (DeleteEffect) effect()   {}
func (LoginEffect) effect()    {}
func (RedirectEffect) effect() {}
