package cosmos

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

const defaultTimeout = 15 * time.Second

// Config points the client at an LCD endpoint and the deployed contract.
type Config struct {
	LCD      string
	Contract string
	ChainID  string
	Timeout  time.Duration
}

// Client reads the contract and the bank module over the LCD REST API and
// builds execute messages for it.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

var _ ports.Chain = (*Client)(nil)

// NewClient creates an LCD client. A nil httpClient uses a client with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.LCD = strings.TrimRight(cfg.LCD, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		cfg:  cfg,
		http: httpClient,
		log:  log.With().Str("component", "cosmos-lcd").Logger(),
	}
}

// statusError is a non-2xx LCD response.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("lcd returned %d: %s", e.Code, e.Body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.cfg.LCD + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.WrapError(core.ErrNetwork, "lcd request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return core.WrapError(core.ErrNetwork, "read lcd response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode >= 500 {
			return core.WrapError(core.ErrNetwork, "lcd unavailable", serr)
		}
		return serr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode lcd response: %w", err)
	}
	return nil
}

type storeResponse struct {
	QueryResult json.RawMessage `json:"query_result"`
	Data        json.RawMessage `json:"data"`
}

// smartQuery runs a contract query. The message is base64 encoded JSON.
func (c *Client) smartQuery(ctx context.Context, msg any, out any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	q := url.Values{"query_msg": {base64.StdEncoding.EncodeToString(raw)}}

	var resp storeResponse
	if err := c.get(ctx, "/terra/wasm/v1beta1/contracts/"+c.cfg.Contract+"/store", q, &resp); err != nil {
		return err
	}
	result := resp.QueryResult
	if len(result) == 0 || string(result) == "null" {
		result = resp.Data
	}
	if len(result) == 0 {
		return fmt.Errorf("empty query result")
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("decode query result: %w", err)
	}
	return nil
}

type empty struct{}

func parseUint(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func (c *Client) UserDeposit(ctx context.Context, user string) (*big.Int, error) {
	var resp struct {
		User    string `json:"user"`
		Deposit string `json:"deposit"`
	}
	msg := map[string]any{"get_user_deposit": map[string]string{"user": user}}
	if err := c.smartQuery(ctx, msg, &resp); err != nil {
		return nil, err
	}
	return parseUint(resp.Deposit)
}

func (c *Client) TotalDeposits(ctx context.Context) (*big.Int, error) {
	var resp struct {
		Total string `json:"total"`
	}
	if err := c.smartQuery(ctx, map[string]any{"get_total_deposits": empty{}}, &resp); err != nil {
		return nil, err
	}
	return parseUint(resp.Total)
}

func (c *Client) UserCount(ctx context.Context) (uint64, error) {
	var resp struct {
		Count uint64 `json:"count"`
	}
	if err := c.smartQuery(ctx, map[string]any{"get_user_count": empty{}}, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// Owner reads the contract owner from its config.
func (c *Client) Owner(ctx context.Context) (string, error) {
	var resp struct {
		Owner     string `json:"owner"`
		USTCDenom string `json:"ustc_denom"`
	}
	if err := c.smartQuery(ctx, map[string]any{"get_config": empty{}}, &resp); err != nil {
		return "", err
	}
	return resp.Owner, nil
}

func (c *Client) WithdrawalInfo(ctx context.Context) (core.WithdrawalConfig, error) {
	var resp struct {
		Destination     *string `json:"destination"`
		UnlockTimestamp int64   `json:"unlock_timestamp"`
		IsConfigured    bool    `json:"is_configured"`
	}
	if err := c.smartQuery(ctx, map[string]any{"get_withdrawal_info": empty{}}, &resp); err != nil {
		return core.WithdrawalConfig{}, err
	}
	cfg := core.WithdrawalConfig{
		UnlockTimestamp: resp.UnlockTimestamp,
		IsConfigured:    resp.IsConfigured,
	}
	if resp.Destination != nil {
		cfg.Destination = *resp.Destination
	}
	return cfg, nil
}

// Depositors pages through the contract's user list. next is empty on the
// last page.
func (c *Client) Depositors(ctx context.Context, startAfter string, limit uint32) (users []core.Depositor, next string, err error) {
	query := map[string]any{"limit": limit}
	if startAfter != "" {
		query["start_after"] = startAfter
	}
	var resp struct {
		Users [][2]string `json:"users"`
		Next  *string     `json:"next"`
	}
	if err := c.smartQuery(ctx, map[string]any{"get_all_users": query}, &resp); err != nil {
		return nil, "", err
	}
	users = make([]core.Depositor, 0, len(resp.Users))
	for _, u := range resp.Users {
		users = append(users, core.Depositor{Address: u[0], Deposit: u[1]})
	}
	if resp.Next != nil {
		next = *resp.Next
	}
	return users, next, nil
}

// Balance returns the bank balance of the token denom.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	var resp struct {
		Balances []core.Coin `json:"balances"`
	}
	if err := c.get(ctx, "/cosmos/bank/v1beta1/balances/"+address, nil, &resp); err != nil {
		return nil, err
	}
	for _, b := range resp.Balances {
		if b.Denom == core.CosmosTokenDenom {
			return parseUint(b.Amount)
		}
	}
	return new(big.Int), nil
}

// Plan builds a single execute message with a fixed fee.
func (c *Client) Plan(_ context.Context, intent core.TransactionIntent, sender string) (core.Plan, error) {
	var (
		execute any
		funds   []core.Coin
	)
	switch intent.Kind {
	case core.IntentDeposit:
		amount, err := c.atomic(intent.Amount)
		if err != nil {
			return core.Plan{}, err
		}
		execute = map[string]any{"deposit": empty{}}
		funds = []core.Coin{{Denom: core.CosmosTokenDenom, Amount: amount.String()}}
	case core.IntentWithdraw:
		amount, err := c.atomic(intent.Amount)
		if err != nil {
			return core.Plan{}, err
		}
		execute = map[string]any{"withdraw": map[string]string{"amount": amount.String()}}
	case core.IntentSetWithdrawalDestination:
		if intent.Params == nil {
			return core.Plan{}, core.NewError(core.ErrValidation, "destination is required")
		}
		execute = map[string]any{"set_withdrawal_destination": map[string]any{
			"destination":      intent.Params.Destination,
			"unlock_timestamp": intent.Params.UnlockTimestamp,
		}}
	case core.IntentOwnerWithdraw:
		execute = map[string]any{"owner_withdraw": empty{}}
	default:
		return core.Plan{}, core.NewError(core.ErrValidation, fmt.Sprintf("unsupported intent %q", intent.Kind))
	}

	raw, err := json.Marshal(execute)
	if err != nil {
		return core.Plan{}, fmt.Errorf("encode execute message: %w", err)
	}
	fee := core.FeeFor(intent.Kind)
	return core.Plan{
		Kind: intent.Kind,
		Steps: []core.Step{{
			Label: string(intent.Kind),
			Messages: []core.Message{core.ExecuteContract{
				Sender:   sender,
				Contract: c.cfg.Contract,
				Msg:      raw,
				Funds:    funds,
			}},
			Fee: &fee,
		}},
	}, nil
}

func (c *Client) atomic(amount string) (*big.Int, error) {
	v, err := core.ToAtomicUnits(amount, core.CosmosTokenDecimals)
	if err != nil {
		return nil, err
	}
	if v.Sign() <= 0 {
		return nil, core.NewError(core.ErrValidation, "amount is below the smallest unit")
	}
	return v, nil
}

type txResponse struct {
	TxResponse struct {
		TxHash  string `json:"txhash"`
		Code    uint32 `json:"code"`
		RawLog  string `json:"raw_log"`
		Height  string `json:"height"`
		GasUsed string `json:"gas_used"`
		Logs    []struct {
			Log string `json:"log"`
		} `json:"logs"`
	} `json:"tx_response"`
}

// Receipt looks the transaction up. A 404 means it is not yet included.
func (c *Client) Receipt(ctx context.Context, hash string) (core.Receipt, bool, error) {
	var resp txResponse
	err := c.get(ctx, "/cosmos/tx/v1beta1/txs/"+hash, nil, &resp)
	if err != nil {
		if serr, ok := err.(*statusError); ok && serr.Code == http.StatusNotFound {
			return core.Receipt{}, false, nil
		}
		return core.Receipt{}, false, err
	}

	tx := resp.TxResponse
	receipt := core.Receipt{Hash: hash, Code: tx.Code}
	receipt.Height, _ = strconv.ParseInt(tx.Height, 10, 64)
	receipt.GasUsed, _ = strconv.ParseUint(tx.GasUsed, 10, 64)
	if tx.Code != 0 {
		receipt.Log = tx.RawLog
		if receipt.Log == "" && len(tx.Logs) > 0 {
			receipt.Log = tx.Logs[0].Log
		}
	}
	c.log.Debug().Str("hash", hash).Uint32("code", tx.Code).Int64("height", receipt.Height).Msg("tx found")
	return receipt, true, nil
}
