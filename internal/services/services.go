// package services defines interface Service for interacting with the Vidhi Sahayak updates API
package services

import (
	"context"

	"github.com/desertthunder/vidhi/internal/models"
)

// DefaultBaseURL is the production updates API.
const DefaultBaseURL = "https://vidhisahayak2004.pythonanywhere.com/api/v1"

// DefaultListLimit is the number of updates requested per tab.
const DefaultListLimit = 50

// APIKeyHeader carries the session key on every authorized request.
const APIKeyHeader = "X-API-KEY"

// Service defines the operations the client performs against the updates backend.
//
// Every method except Login takes the [models.Session] explicitly; implementations hold no session state.
type Service interface {
	// Login exchanges credentials for an API key.
	// Any failure is reported as an [*AuthError].
	Login(ctx context.Context, username, password string) (string, error)

	// ListUpdates fetches up to limit updates of the given category, in server order.
	ListUpdates(ctx context.Context, s models.Session, category models.Category, limit int) ([]models.Update, error)

	// TriggerScrape asks the server to ingest new updates and waits for it to finish.
	TriggerScrape(ctx context.Context, s models.Session) error

	// DeleteUpdate removes one update by identifier.
	DeleteUpdate(ctx context.Context, s models.Session, id models.UpdateID) error

	// DeleteAllUpdates removes every update on the server. Irreversible.
	DeleteAllUpdates(ctx context.Context, s models.Session) error
}
