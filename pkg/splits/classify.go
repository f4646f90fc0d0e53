package splits

import (
	"github.com/pkg/errors"

	"github.com/cascade-protocol/splits-go/pkg/solana"
	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
)

// classifyFailure maps a submission or confirmation error onto the failure
// taxonomy. Every error lands in exactly one bucket.
func classifyFailure(err error) *Failure {
	if errors.Is(err, ErrUserRejected) {
		return &Failure{
			Reason:  FailureWalletRejected,
			Message: "the wallet rejected the transaction",
			Cause:   err,
		}
	}
	if errors.Is(err, ErrWalletDisconnected) {
		return &Failure{
			Reason:  FailureWalletDisconnected,
			Message: "the wallet is disconnected",
			Cause:   err,
		}
	}
	if errors.Is(err, solana.ErrSignatureNotFound) {
		return &Failure{
			Reason:  FailureTransactionExpired,
			Message: "the transaction was not confirmed before the wait bound",
			Cause:   err,
		}
	}

	var txErr *solana.TransactionError
	if errors.As(err, &txErr) {
		return classifyTransactionError(txErr)
	}

	return &Failure{
		Reason:  FailureNetworkError,
		Message: err.Error(),
		Cause:   err,
	}
}

func classifyTransactionError(txErr *solana.TransactionError) *Failure {
	if txErr == nil {
		return nil
	}

	if txErr.ErrorKey() == solana.TransactionErrorBlockhashNotFound {
		return &Failure{
			Reason:  FailureTransactionExpired,
			Message: "the transaction's recency context expired",
			Cause:   txErr,
		}
	}

	if customErr := txErr.CustomError(); customErr != nil {
		return &Failure{
			Reason:  FailureProgramError,
			Code:    uint32(*customErr),
			Message: txErr.Error(),
			Cause:   txErr,
		}
	}

	return &Failure{
		Reason:  FailureProgramError,
		Message: txErr.Error(),
		Cause:   txErr,
	}
}

// isStaleFeeRecipient reports whether a failure is the program rejecting a
// submission because the protocol fee recipient changed underneath us. The
// engine invalidates its protocol config cache and retries exactly once on
// this condition.
func isStaleFeeRecipient(f *Failure) bool {
	return f != nil &&
		f.Reason == FailureProgramError &&
		f.Code == uint32(cascade_splits.ErrInvalidProtocolFeeRecipient)
}
