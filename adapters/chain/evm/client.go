package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

// Fallback gas limits used when estimation fails, typically because an
// earlier step of the plan is not mined yet.
const (
	gasApprove     uint64 = 100_000
	gasDeposit     uint64 = 200_000
	gasWithdraw    uint64 = 150_000
	gasDestination uint64 = 100_000
	gasOwner       uint64 = 150_000
)

// Caller is the node surface the client needs. *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Config holds the deployed contract and token addresses.
type Config struct {
	Contract string
	Token    string
}

// Client reads the pre-registration contract and builds calls for it.
type Client struct {
	node     Caller
	contract common.Address
	token    common.Address
	log      zerolog.Logger
}

var _ ports.Chain = (*Client)(nil)

// Dial connects to the RPC endpoint and returns a client bound to cfg.
func Dial(ctx context.Context, rawurl string, cfg Config, log zerolog.Logger) (*Client, error) {
	node, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawurl, err)
	}
	return NewClient(node, cfg, log)
}

func NewClient(node Caller, cfg Config, log zerolog.Logger) (*Client, error) {
	if !common.IsHexAddress(cfg.Contract) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.Contract)
	}
	if !common.IsHexAddress(cfg.Token) {
		return nil, fmt.Errorf("invalid token address %q", cfg.Token)
	}
	return &Client{
		node:     node,
		contract: common.HexToAddress(cfg.Contract),
		token:    common.HexToAddress(cfg.Token),
		log:      log.With().Str("component", "evm-chain").Logger(),
	}, nil
}

func classify(err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		return core.WrapError(core.ErrTransactionFailed, "contract call reverted", err)
	}
	if strings.Contains(strings.ToLower(err.Error()), "execution reverted") {
		return core.WrapError(core.ErrTransactionFailed, "contract call reverted", err)
	}
	return core.WrapError(core.ErrNetwork, "rpc call failed", err)
}

func (c *Client) call(ctx context.Context, to common.Address, def abi.ABI, method string, args ...any) ([]any, error) {
	data, err := def.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := c.node.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, classify(err)
	}
	values, err := def.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return values, nil
}

func (c *Client) callBig(ctx context.Context, to common.Address, def abi.ABI, method string, args ...any) (*big.Int, error) {
	values, err := c.call(ctx, to, def, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected type %T", method, values[0])
	}
	return v, nil
}

func (c *Client) callAddress(ctx context.Context, method string) (common.Address, error) {
	values, err := c.call(ctx, c.contract, contractABI, method)
	if err != nil {
		return common.Address{}, err
	}
	v, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s: unexpected type %T", method, values[0])
	}
	return v, nil
}

func (c *Client) UserDeposit(ctx context.Context, user string) (*big.Int, error) {
	if !common.IsHexAddress(user) {
		return nil, core.NewError(core.ErrValidation, "invalid BSC address format")
	}
	return c.callBig(ctx, c.contract, contractABI, "getUserDeposit", common.HexToAddress(user))
}

func (c *Client) TotalDeposits(ctx context.Context) (*big.Int, error) {
	return c.callBig(ctx, c.contract, contractABI, "getTotalDeposits")
}

func (c *Client) UserCount(ctx context.Context) (uint64, error) {
	n, err := c.callBig(ctx, c.contract, contractABI, "getUserCount")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (c *Client) Owner(ctx context.Context) (string, error) {
	owner, err := c.callAddress(ctx, "owner")
	if err != nil {
		return "", err
	}
	return owner.Hex(), nil
}

func (c *Client) WithdrawalInfo(ctx context.Context) (core.WithdrawalConfig, error) {
	var cfg core.WithdrawalConfig

	dest, err := c.callAddress(ctx, "getWithdrawalDestination")
	if err != nil {
		return cfg, err
	}
	if dest != (common.Address{}) {
		cfg.Destination = dest.Hex()
	}

	unlock, err := c.callBig(ctx, c.contract, contractABI, "getWithdrawalUnlockTimestamp")
	if err != nil {
		return cfg, err
	}
	cfg.UnlockTimestamp = unlock.Int64()

	values, err := c.call(ctx, c.contract, contractABI, "isWithdrawalConfigured")
	if err != nil {
		return cfg, err
	}
	configured, ok := values[0].(bool)
	if !ok {
		return cfg, fmt.Errorf("isWithdrawalConfigured: unexpected type %T", values[0])
	}
	cfg.IsConfigured = configured
	return cfg, nil
}

// Balance returns the ERC20 token balance of address.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, core.NewError(core.ErrValidation, "invalid BSC address format")
	}
	return c.callBig(ctx, c.token, tokenABI, "balanceOf", common.HexToAddress(address))
}

// Allowance returns what the contract may still pull from owner.
func (c *Client) Allowance(ctx context.Context, owner string) (*big.Int, error) {
	return c.callBig(ctx, c.token, tokenABI, "allowance", common.HexToAddress(owner), c.contract)
}

// Plan packs the contract call for intent. A deposit whose amount exceeds the
// current allowance gets an approve step first.
func (c *Client) Plan(ctx context.Context, intent core.TransactionIntent, sender string) (core.Plan, error) {
	if !common.IsHexAddress(sender) {
		return core.Plan{}, core.NewError(core.ErrValidation, "invalid BSC address format")
	}
	plan := core.Plan{Kind: intent.Kind}

	switch intent.Kind {
	case core.IntentDeposit:
		amount, err := atomic(intent.Amount)
		if err != nil {
			return core.Plan{}, err
		}
		allowance, err := c.Allowance(ctx, sender)
		if err != nil {
			return core.Plan{}, err
		}
		if allowance.Cmp(amount) < 0 {
			step, err := c.step(ctx, "approve", sender, c.token, tokenABI, gasApprove, "approve", c.contract, amount)
			if err != nil {
				return core.Plan{}, err
			}
			plan.Steps = append(plan.Steps, step)
		}
		step, err := c.step(ctx, "deposit", sender, c.contract, contractABI, gasDeposit, "deposit", amount)
		if err != nil {
			return core.Plan{}, err
		}
		plan.Steps = append(plan.Steps, step)
	case core.IntentWithdraw:
		amount, err := atomic(intent.Amount)
		if err != nil {
			return core.Plan{}, err
		}
		step, err := c.step(ctx, "withdraw", sender, c.contract, contractABI, gasWithdraw, "withdraw", amount)
		if err != nil {
			return core.Plan{}, err
		}
		plan.Steps = append(plan.Steps, step)
	case core.IntentSetWithdrawalDestination:
		if intent.Params == nil {
			return core.Plan{}, core.NewError(core.ErrValidation, "destination is required")
		}
		step, err := c.step(ctx, "set-withdrawal-destination", sender, c.contract, contractABI, gasDestination,
			"setWithdrawalDestination", common.HexToAddress(intent.Params.Destination), big.NewInt(intent.Params.UnlockTimestamp))
		if err != nil {
			return core.Plan{}, err
		}
		plan.Steps = append(plan.Steps, step)
	case core.IntentOwnerWithdraw:
		step, err := c.step(ctx, "owner-withdraw", sender, c.contract, contractABI, gasOwner, "ownerWithdraw")
		if err != nil {
			return core.Plan{}, err
		}
		plan.Steps = append(plan.Steps, step)
	default:
		return core.Plan{}, core.NewError(core.ErrValidation, fmt.Sprintf("unsupported intent %q", intent.Kind))
	}
	return plan, nil
}

func (c *Client) step(ctx context.Context, label, sender string, to common.Address, def abi.ABI, fallback uint64, method string, args ...any) (core.Step, error) {
	data, err := def.Pack(method, args...)
	if err != nil {
		return core.Step{}, fmt.Errorf("pack %s: %w", method, err)
	}
	from := common.HexToAddress(sender)
	gas, err := c.node.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Uint64("fallback", fallback).Msg("gas estimation failed")
		gas = fallback
	} else {
		gas += gas / 10
	}
	return core.Step{
		Label: label,
		Messages: []core.Message{core.EVMCall{
			From: from.Hex(),
			To:   to.Hex(),
			Data: data,
			Gas:  gas,
		}},
	}, nil
}

func atomic(amount string) (*big.Int, error) {
	v, err := core.ToAtomicUnits(amount, core.EVMTokenDecimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, core.NewError(core.ErrValidation, "amount is below the smallest unit")
	}
	return v, nil
}

// Receipt fetches the mined receipt. A status of 0 is reported as code 1.
func (c *Client) Receipt(ctx context.Context, hash string) (core.Receipt, bool, error) {
	r, err := c.node.TransactionReceipt(ctx, common.HexToHash(hash))
	if errors.Is(err, ethereum.NotFound) {
		return core.Receipt{}, false, nil
	}
	if err != nil {
		return core.Receipt{}, false, core.WrapError(core.ErrNetwork, "receipt lookup failed", err)
	}
	receipt := core.Receipt{Hash: hash, GasUsed: r.GasUsed}
	if r.BlockNumber != nil {
		receipt.Height = r.BlockNumber.Int64()
	}
	if r.Status == types.ReceiptStatusFailed {
		receipt.Code = 1
		receipt.Log = "execution reverted"
	}
	return receipt, true, nil
}
