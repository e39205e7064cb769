package payease

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhi-bhosle/payease/gateway"
	"github.com/abhi-bhosle/payease/session"
)

// TransferState names the workflow's finite states.
type TransferState uint8

const (
	// StateIdle accepts field edits and a new submission.
	StateIdle TransferState = iota
	// StateValidating checks the form locally, before any network call.
	StateValidating
	// StateSubmitting has exactly one request in flight.
	StateSubmitting
	// StateSettled is the terminal outcome of a server-confirmed transfer.
	StateSettled
	// StateRejected is the terminal outcome of a refused or failed transfer.
	StateRejected
)

// String names the state for logs and events.
func (s TransferState) String() string {
	switch s {
	case StateValidating:
		return "Validating"
	case StateSubmitting:
		return "Submitting"
	case StateSettled:
		return "Settled"
	case StateRejected:
		return "Rejected"
	default:
		return "Idle"
	}
}

// TransferWorkflow is one dashboard's send-money state machine. It caches the
// session owner's balance and history, both replaced wholesale from server
// responses and never derived locally.
//
// At most one submission is in flight per workflow; a second Submit while one
// is outstanding returns [ErrSubmitInFlight] without queueing. A workflow
// that has been Closed discards any response that arrives afterwards.
type TransferWorkflow struct {
	mu     sync.Mutex
	client *Client

	state   TransferState
	outcome TransferState
	message string
	lastErr error
	closed  bool

	recipient string
	amount    string

	balance float64
	history []TransactionRecord
}

// NewTransferWorkflow creates a workflow bound to the current User-role
// session. The returned workflow starts Idle with a zero cache; call
// [TransferWorkflow.Hydrate] to load the authoritative snapshot.
func (c *Client) NewTransferWorkflow() (*TransferWorkflow, error) {
	if c == nil || c.gw == nil {
		return nil, ErrClientNotReady
	}

	sess := c.Session()
	if !sess.Authenticated {
		return nil, ErrNotAuthenticated
	}
	if sess.Role != RoleUser {
		return nil, fmt.Errorf("%w: transfers require a user session", ErrUnauthorized)
	}

	return &TransferWorkflow{client: c, state: StateIdle}, nil
}

// State returns the live workflow state.
func (w *TransferWorkflow) State() TransferState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Outcome reports the terminal state and server message of the most recent
// completed submission: StateSettled, StateRejected, or StateIdle when none
// has completed yet.
func (w *TransferWorkflow) Outcome() (TransferState, string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome, w.message
}

// LastError returns the error of the most recent rejected submission.
func (w *TransferWorkflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Balance returns the cached authoritative balance.
func (w *TransferWorkflow) Balance() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// History returns a copy of the cached transaction history.
func (w *TransferWorkflow) History() []TransactionRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]TransactionRecord, len(w.history))
	copy(out, w.history)
	return out
}

// SetRecipient edits the recipient field. Refused while a submission is in
// flight.
func (w *TransferWorkflow) SetRecipient(username string) error {
	return w.setField(func() { w.recipient = username })
}

// SetAmount edits the amount field with the raw user input; parsing happens
// at validation time.
func (w *TransferWorkflow) SetAmount(amount string) error {
	return w.setField(func() { w.amount = amount })
}

// Recipient returns the current recipient field.
func (w *TransferWorkflow) Recipient() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.recipient
}

// Amount returns the current amount field.
func (w *TransferWorkflow) Amount() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.amount
}

func (w *TransferWorkflow) setField(apply func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWorkflowClosed
	}
	if w.state == StateSubmitting {
		return ErrSubmitInFlight
	}
	apply()
	return nil
}

// Hydrate fetches the authoritative balance and history and replaces the
// cache wholesale. On failure the cache is untouched and the error is
// surfaced; a backend session rejection additionally forces a logout.
func (w *TransferWorkflow) Hydrate(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	sess := w.client.Session()
	w.mu.Unlock()

	if !sess.Authenticated || sess.Identity == nil {
		return ErrNotAuthenticated
	}

	snap, err := w.client.gw.CurrentUser(ctx, sess.Identity.Username)
	if err != nil {
		w.client.metricInc(MetricHydrateFailure)
		if isUnauthorized(err) {
			w.client.forceLogout(ctx, EventSessionExpired, "backend rejected session")
			return fmt.Errorf("%w: backend rejected session", ErrUnauthorized)
		}
		return wrapGateway(ErrFetch, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	w.balance = snap.Balance
	w.history = transactionRecords(snap.TransactionHistory)
	w.client.metricInc(MetricHydrateSuccess)
	return nil
}

// Submit runs one submission attempt through the state machine:
// Validating, then Submitting with exactly one wire request, then Settled or
// Rejected, and back to Idle. On Settled the server response replaces the
// cached balance and history and the form fields are cleared; on Rejected
// the cache and fields are left exactly as they were.
func (w *TransferWorkflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state == StateSubmitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}

	w.state = StateValidating
	sess := w.client.Session()
	req, err := w.buildRequestLocked(sess)
	if err != nil {
		w.finishLocked(StateRejected, "", err)
		w.mu.Unlock()

		w.client.metricInc(MetricTransferValidationFailed)
		w.client.emit(ctx, EventTransferRejected, false, UserMessage(err), map[string]string{
			"stage": "validation",
		})
		return err
	}

	w.state = StateSubmitting
	w.mu.Unlock()

	submitCtx := ctx
	if timeout := w.client.config.Transfer.SubmitTimeout; timeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, submitErr := w.client.gw.SubmitTransfer(submitCtx, req)
	w.client.observeSubmitLatency(time.Since(start))

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		// The workflow was torn down while the request was in flight; the
		// result, whatever it was, must not be applied.
		w.client.metricInc(MetricTransferDiscarded)
		return ErrWorkflowClosed
	}

	if submitErr != nil {
		wrapped := wrapGateway(ErrTransfer, submitErr)
		w.finishLocked(StateRejected, "", wrapped)

		w.client.metricInc(MetricTransferRejected)
		w.client.emit(ctx, EventTransferRejected, false, UserMessage(wrapped), map[string]string{
			"recipient": req.RecipientUsername,
		})
		if isUnauthorized(submitErr) {
			w.client.forceLogout(ctx, EventSessionExpired, "backend rejected session")
		}
		return wrapped
	}

	w.balance = resp.SenderBalance
	w.history = transactionRecords(resp.SenderTransactionHistory)
	w.recipient = ""
	w.amount = ""
	w.finishLocked(StateSettled, resp.Message, nil)

	w.client.metricInc(MetricTransferSettled)
	w.client.emit(ctx, EventTransferSettled, true, "", map[string]string{
		"recipient": req.RecipientUsername,
		"amount":    strconv.FormatFloat(req.Amount, 'f', -1, 64),
	})
	return nil
}

// Close tears the workflow down, e.g. when the user navigates away. Any
// in-flight submission result is discarded.
func (w *TransferWorkflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// buildRequestLocked validates the form against the session and produces the
// wire request. Validation never contacts the backend.
func (w *TransferWorkflow) buildRequestLocked(sess session.Session) (gateway.TransferRequest, error) {
	var req gateway.TransferRequest

	if !sess.Authenticated || sess.Identity == nil {
		return req, fmt.Errorf("%w: session ended", ErrNotAuthenticated)
	}

	recipient := strings.TrimSpace(w.recipient)
	if recipient == "" {
		return req, fmt.Errorf("%w: recipient username required", ErrValidation)
	}
	if recipient == sess.Identity.Username {
		return req, fmt.Errorf("%w: cannot transfer to yourself", ErrValidation)
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(w.amount), 64)
	if err != nil {
		return req, fmt.Errorf("%w: amount is not a number", ErrValidation)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return req, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}

	req.SenderUsername = sess.Identity.Username
	req.RecipientUsername = recipient
	req.Amount = amount
	return req, nil
}

// finishLocked records a terminal outcome and returns the machine to Idle.
func (w *TransferWorkflow) finishLocked(outcome TransferState, message string, err error) {
	w.outcome = outcome
	w.message = message
	w.lastErr = err
	w.state = StateIdle
}
