package utils

import (
	"github.com/iov-one/heirloom"
)

const (
	// ActionEvent is the type of the event added by ActionTagger.
	ActionEvent = "message"
	// ActionKey is the attribute holding the message path.
	ActionKey = "action"
)

// ActionTagger puts a "message" event with the path of the delivered
// message in front of the result events. Clients can subscribe to a single
// tag, for example "message.action='deadman/finalize_claim'", to follow
// every claim of a wallet.
type ActionTagger struct{}

var _ heirloom.Decorator = ActionTagger{}

// NewActionTagger returns an ActionTagger decorator.
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Checker) (*heirloom.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx, next heirloom.Deliverer) (*heirloom.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	events := make([]heirloom.Event, 0, len(res.Events)+1)
	events = append(events, heirloom.NewEvent(ActionEvent).With(ActionKey, msg.Path()))
	res.Events = append(events, res.Events...)
	return res, nil
}
