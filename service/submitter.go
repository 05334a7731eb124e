package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

const (
	DefaultPollInterval  = 2 * time.Second
	DefaultSettleTimeout = 60 * time.Second
)

// ActiveBackends resolves the active backend of a family.
type ActiveBackends interface {
	ActiveBackend(family core.ChainFamily) (ports.Backend, core.ActiveSession, bool)
}

// WithdrawalGate supplies the withdrawal config used for the local checks
// that run before anything is built.
type WithdrawalGate interface {
	WithdrawalConfig(ctx context.Context) (core.WithdrawalConfig, error)
}

// SubmitterConfig tunes settlement polling.
type SubmitterConfig struct {
	PollInterval  time.Duration
	SettleTimeout time.Duration
	Memo          string
}

// Submission is the outcome of one intent. Deposits on the EVM chain may
// need an approval transaction before the deposit itself.
type Submission struct {
	Family       core.ChainFamily            `json:"family"`
	Kind         core.IntentKind             `json:"kind"`
	Transactions []*core.SubmittedTransaction `json:"transactions"`
}

// Last returns the final transaction of the submission.
func (s *Submission) Last() *core.SubmittedTransaction {
	if s == nil || len(s.Transactions) == 0 {
		return nil
	}
	return s.Transactions[len(s.Transactions)-1]
}

// Submitter turns intents into settled transactions for one chain family.
type Submitter struct {
	family  core.ChainFamily
	conns   ActiveBackends
	chain   ports.Chain
	gate    WithdrawalGate
	cfg     SubmitterConfig
	settled func(ctx context.Context)
	now     func() time.Time
	log     zerolog.Logger
}

// NewSubmitter creates a submitter. gate may be nil, in which case the
// withdrawal config is read from the chain.
func NewSubmitter(family core.ChainFamily, conns ActiveBackends, chain ports.Chain, gate WithdrawalGate, cfg SubmitterConfig, log zerolog.Logger) *Submitter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = DefaultSettleTimeout
	}
	return &Submitter{
		family: family,
		conns:  conns,
		chain:  chain,
		gate:   gate,
		cfg:    cfg,
		now:    time.Now,
		log:    log.With().Str("component", "submitter").Str("family", string(family)).Logger(),
	}
}

// OnSettled registers a hook run after every terminal outcome of a
// broadcast transaction, confirmed or failed.
func (s *Submitter) OnSettled(fn func(ctx context.Context)) {
	s.settled = fn
}

// Submit validates the intent, builds its plan and runs every step through
// the active backend, waiting for each to settle before the next.
func (s *Submitter) Submit(ctx context.Context, intent core.TransactionIntent, activeAddress string) (*Submission, error) {
	if err := intent.Validate(s.family, s.now()); err != nil {
		return nil, err
	}

	backend, _, ok := s.conns.ActiveBackend(s.family)
	if !ok || !backend.IsConnected() {
		return nil, core.NewError(core.ErrConnectionUnavailable, "no wallet connected")
	}
	if !strings.EqualFold(backend.Address(), activeAddress) {
		return nil, core.NewError(core.ErrValidation, "address is not the connected account")
	}

	if err := s.checkGate(ctx, intent); err != nil {
		return nil, err
	}

	plan, err := s.chain.Plan(ctx, intent, backend.Address())
	if err != nil {
		return nil, err
	}

	sub := &Submission{Family: s.family, Kind: intent.Kind}
	for _, step := range plan.Steps {
		tx, err := s.runStep(ctx, backend, intent.Kind, step)
		if tx != nil {
			sub.Transactions = append(sub.Transactions, tx)
		}
		if err != nil {
			return sub, err
		}
	}
	return sub, nil
}

func (s *Submitter) checkGate(ctx context.Context, intent core.TransactionIntent) error {
	if intent.Kind != core.IntentWithdraw && intent.Kind != core.IntentOwnerWithdraw {
		return nil
	}
	var (
		cfg core.WithdrawalConfig
		err error
	)
	if s.gate != nil {
		cfg, err = s.gate.WithdrawalConfig(ctx)
	} else {
		cfg, err = s.chain.WithdrawalInfo(ctx)
	}
	if err != nil {
		return core.WrapError(core.ErrNetwork, "failed to read withdrawal config", err)
	}

	switch intent.Kind {
	case core.IntentWithdraw:
		if !cfg.IsConfigured {
			return core.NewError(core.ErrValidation, "withdrawals are not configured yet")
		}
	case core.IntentOwnerWithdraw:
		if !cfg.IsConfigured {
			return core.NewError(core.ErrTransactionFailed, "withdrawal destination not set")
		}
		if !cfg.Unlocked(s.now()) {
			unlock := time.Unix(cfg.UnlockTimestamp, 0).UTC()
			return core.NewError(core.ErrTransactionFailed, "withdrawal is locked until "+unlock.Format(time.RFC3339))
		}
	}
	return nil
}

func (s *Submitter) runStep(ctx context.Context, backend ports.Backend, kind core.IntentKind, step core.Step) (*core.SubmittedTransaction, error) {
	tx := core.NewSubmittedTransaction(s.family, kind, step.Label, s.now())
	logger := s.log.With().Str("kind", string(kind)).Str("step", step.Label).Logger()

	s.transition(tx, core.TxSigning)
	hash, err := backend.SignAndBroadcast(ctx, step.Messages, s.cfg.Memo, step.Fee)
	if err != nil {
		tx.Reason = err.Error()
		if core.IsUserRejection(err) {
			s.transition(tx, core.TxRejected)
			logger.Info().Msg("transaction rejected by user")
		} else {
			s.transition(tx, core.TxFailed)
			logger.Warn().Err(err).Msg("sign and broadcast failed")
		}
		return tx, err
	}
	tx.Hash = hash
	s.transition(tx, core.TxBroadcasting)
	s.transition(tx, core.TxPending)
	logger.Info().Str("hash", hash).Msg("transaction broadcast")

	receipt, err := s.waitForReceipt(ctx, hash)
	if err != nil {
		tx.Reason = err.Error()
		logger.Warn().Err(err).Str("hash", hash).Msg("transaction did not settle")
		return tx, err
	}

	tx.Height = receipt.Height
	tx.GasUsed = receipt.GasUsed
	if !receipt.Succeeded() {
		tx.Log = receipt.FailureLog()
		tx.Reason = tx.Log
		s.transition(tx, core.TxFailed)
		s.fireSettled(ctx)
		logger.Warn().Str("hash", hash).Uint32("code", receipt.Code).Str("log", tx.Log).Msg("transaction failed on chain")
		return tx, &core.Error{Kind: core.ErrTransactionFailed, Log: tx.Log}
	}

	s.transition(tx, core.TxConfirmed)
	s.fireSettled(ctx)
	logger.Info().Str("hash", hash).Int64("height", receipt.Height).Msg("transaction confirmed")
	return tx, nil
}

// waitForReceipt polls until the transaction is included or the settle
// timeout elapses. Lookup errors are retried until then.
func (s *Submitter) waitForReceipt(ctx context.Context, hash string) (core.Receipt, error) {
	deadline := time.NewTimer(s.cfg.SettleTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, found, err := s.chain.Receipt(ctx, hash)
		switch {
		case err != nil:
			lastErr = err
			s.log.Debug().Err(err).Str("hash", hash).Msg("receipt lookup failed")
		case found:
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return core.Receipt{}, core.WrapError(core.ErrTransactionError, "stopped waiting for confirmation", ctx.Err())
		case <-deadline.C:
			msg := fmt.Sprintf("transaction %s not confirmed within %s", hash, s.cfg.SettleTimeout)
			if lastErr != nil {
				return core.Receipt{}, &core.Error{Kind: core.ErrTransactionError, Message: msg, Err: lastErr}
			}
			return core.Receipt{}, core.NewError(core.ErrTransactionError, msg)
		case <-ticker.C:
		}
	}
}

func (s *Submitter) transition(tx *core.SubmittedTransaction, to core.TxState) {
	if err := tx.Transition(to, s.now()); err != nil {
		s.log.Error().Err(err).Msg("invalid transaction state change")
	}
}

func (s *Submitter) fireSettled(ctx context.Context) {
	if s.settled != nil {
		s.settled(ctx)
	}
}
