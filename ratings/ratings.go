package ratings

import (
	"context"
	"fmt"

	"bend/models"
	"bend/notify"
	"bend/repo"
)

// Aggregator applies ratings to founder and artist profiles. The stored
// fields are a running sum and count, updated in one read-modify-write
// transaction so concurrent raters never lose an update.
type Aggregator struct {
	accounts repo.Accounts
	notifier *notify.Service
}

func NewAggregator(accounts repo.Accounts, notifier *notify.Service) *Aggregator {
	return &Aggregator{accounts: accounts, notifier: notifier}
}

// Apply adds the rating to the target and notifies them with the
// formatted value. A failed transaction surfaces as an error with no
// retry; the notification only goes out on success.
func (a *Aggregator) Apply(ctx context.Context, raterID, targetID string, kind models.AccountKind, value float64) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("rating %v out of range", value)
	}
	if kind != models.KindArtist && kind != models.KindFounder {
		return fmt.Errorf("account kind %q cannot be rated", kind)
	}

	if err := a.accounts.AddRating(ctx, kind, targetID, value); err != nil {
		return err
	}

	a.notifier.RatingReceived(ctx, raterID, targetID, value)
	return nil
}
