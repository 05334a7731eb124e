package backend

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/layer-3/walletbridge/adapters/walletconnect"
	"github.com/layer-3/walletbridge/core"
)

const (
	codeUserRejected      = 4001
	codeUnrecognizedChain = 4902
)

type errorCoder interface {
	ErrorCode() int
}

func errorCode(err error) (int, bool) {
	var ec errorCoder
	if errors.As(err, &ec) {
		return ec.ErrorCode(), true
	}
	return 0, false
}

func isRejection(err error) bool {
	if core.IsContextError(err) {
		return false
	}
	if code, ok := errorCode(err); ok && code == codeUserRejected {
		return true
	}
	return core.LooksLikeRejection(err.Error())
}

func isNetwork(err error) bool {
	var netErr net.Error
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &netErr), errors.As(err, &closeErr):
		return true
	case errors.Is(err, walletconnect.ErrTransportClosed), errors.Is(err, syscall.ECONNREFUSED):
		return true
	}
	return false
}

// classifySignError maps a raw wallet failure onto the transaction taxonomy.
func classifySignError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return core.WrapError(core.ErrTransactionError, "wallet request interrupted", err)
	case isRejection(err):
		return core.WrapError(core.ErrTransactionRejected, "Transaction rejected by user", err)
	case isNetwork(err):
		return core.WrapError(core.ErrNetwork, "wallet unreachable", err)
	}
	return core.WrapError(core.ErrTransactionError, "wallet request failed", err)
}

// classifyConnectError maps a raw failure during connect.
func classifyConnectError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return core.WrapError(core.ErrConnectionRejected, "Connection cancelled by user", err)
	case isRejection(err):
		return core.WrapError(core.ErrConnectionRejected, "Connection rejected by user", err)
	case isNetwork(err):
		return core.WrapError(core.ErrNetwork, "wallet unreachable", err)
	}
	return core.WrapError(core.ErrConnectionUnavailable, "wallet connection failed", err)
}

func notConnected(id core.BackendID) error {
	return &core.Error{Kind: core.ErrTransactionError, Message: string(id) + " not connected", Err: core.ErrNotConnected}
}
