package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// IntentKind is the logical operation a user asks for.
type IntentKind string

const (
	IntentDeposit                  IntentKind = "deposit"
	IntentWithdraw                 IntentKind = "withdraw"
	IntentSetWithdrawalDestination IntentKind = "set-withdrawal-destination"
	IntentOwnerWithdraw            IntentKind = "owner-withdraw"
)

// MinUnlockDelay is the smallest lead time the cosmos contract accepts for a
// withdrawal unlock timestamp.
const MinUnlockDelay = 7 * 24 * time.Hour

var terraAddress = regexp.MustCompile(`^terra1[0-9a-z]{38}$`)

// DestinationParams configures the timelocked withdrawal.
type DestinationParams struct {
	Destination     string `json:"destination"`
	UnlockTimestamp int64  `json:"unlock_timestamp"`
}

// TransactionIntent is a single user action, consumed by the submitter.
type TransactionIntent struct {
	Kind   IntentKind         `json:"kind"`
	Amount string             `json:"amount,omitempty"`
	Params *DestinationParams `json:"params,omitempty"`
}

// RequiresAmount reports whether the kind carries an amount.
func (k IntentKind) RequiresAmount() bool {
	return k == IntentDeposit || k == IntentWithdraw
}

// Validate performs the local checks that must pass before any network call.
func (i TransactionIntent) Validate(family ChainFamily, now time.Time) error {
	switch i.Kind {
	case IntentDeposit, IntentWithdraw:
		return ValidateAmount(i.Amount)
	case IntentSetWithdrawalDestination:
		if i.Params == nil {
			return NewError(ErrValidation, "destination is required")
		}
		if err := ValidateAddress(family, i.Params.Destination); err != nil {
			return err
		}
		unlock := time.Unix(i.Params.UnlockTimestamp, 0)
		if !unlock.After(now) {
			return NewError(ErrValidation, "unlock timestamp must be in the future")
		}
		if family == FamilyCosmos && unlock.Before(now.Add(MinUnlockDelay)) {
			return NewError(ErrValidation, "unlock timestamp must be at least 7 days in the future")
		}
		return nil
	case IntentOwnerWithdraw:
		return nil
	}
	return NewError(ErrValidation, fmt.Sprintf("unsupported intent %q", i.Kind))
}

// ValidateAmount accepts positive decimal strings only.
func ValidateAmount(amount string) error {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return NewError(ErrValidation, "amount is required")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return NewError(ErrValidation, "amount must be a valid number")
	}
	if !d.IsPositive() {
		return NewError(ErrValidation, "amount must be greater than 0")
	}
	return nil
}

// ValidateAddress checks the account format native to the family.
func ValidateAddress(family ChainFamily, address string) error {
	switch family {
	case FamilyEVM:
		if common.IsHexAddress(address) && strings.HasPrefix(address, "0x") {
			return nil
		}
		return NewError(ErrValidation, "invalid BSC address format")
	case FamilyCosmos:
		if terraAddress.MatchString(address) {
			return nil
		}
		return NewError(ErrValidation, "invalid Terra Classic address format")
	}
	return NewError(ErrValidation, fmt.Sprintf("unknown chain family %q", family))
}
