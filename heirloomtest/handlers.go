package heirloomtest

import "github.com/iov-one/heirloom"

// Handler is a counting heirloom.Handler returning preset results. A set
// error takes precedence over the result.
type Handler struct {
	CheckResult heirloom.CheckResult
	CheckErr    error

	DeliverResult heirloom.DeliverResult
	DeliverErr    error

	calls counter
}

var _ heirloom.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.CheckResult, error) {
	h.calls.check++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx heirloom.Context, db heirloom.KVStore, tx heirloom.Tx) (*heirloom.DeliverResult, error) {
	h.calls.deliver++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.calls.check }
func (h *Handler) DeliverCallCount() int { return h.calls.deliver }
func (h *Handler) CallCount() int        { return h.calls.total() }
