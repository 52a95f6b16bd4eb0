package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/paysim/internal/engine"
	"github.com/roach88/paysim/internal/payment"
	"github.com/roach88/paysim/internal/store"
	"github.com/roach88/paysim/internal/validator"
)

// AuthorizeOptions holds flags for the authorize command.
type AuthorizeOptions struct {
	*RootOptions
	Debtor   string
	Creditor string
	Amount   string
	Scheme   string
	ID       string
	Accounts string

	// IDGenerator allows overriding request id generation (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator payment.IDGenerator
}

// AuthorizeResult is the outcome of a single authorization.
type AuthorizeResult struct {
	RequestID     string `json:"request_id"`
	Debtor        string `json:"debtor"`
	Scheme        string `json:"scheme"`
	Amount        string `json:"amount"`
	Success       bool   `json:"success"`
	Outcome       string `json:"outcome"`
	BalanceBefore string `json:"balance_before,omitempty"`
	BalanceAfter  string `json:"balance_after,omitempty"`
}

// NewAuthorizeCommand creates the authorize command.
func NewAuthorizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuthorizeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Authorize a single payment",
		Long: `Authorize one payment against an in-memory store seeded from a
fixture and print the decision.

Exit codes:
  0 - Payment authorized
  1 - Payment declined
  2 - Command error (bad flags, unreadable fixture)

Examples:
  paysim authorize --debtor 1001 --amount 50 --scheme FasterPayments
  paysim authorize --debtor 1004 --amount 10 --scheme Chaps --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthorize(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Debtor, "debtor", "", "debtor account id (required)")
	cmd.Flags().StringVar(&opts.Creditor, "creditor", "00000", "creditor account id")
	cmd.Flags().StringVar(&opts.Amount, "amount", "", "payment amount as a decimal (required)")
	cmd.Flags().StringVar(&opts.Scheme, "scheme", payment.FasterPayments.String(), "payment scheme (FasterPayments|Bacs|Chaps)")
	cmd.Flags().StringVar(&opts.ID, "id", "", "request id (UUIDv7 when empty)")
	cmd.Flags().StringVar(&opts.Accounts, "accounts", "", "account fixture (.yaml or .cue); reference accounts when empty")
	_ = cmd.MarkFlagRequired("debtor")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runAuthorize(opts *AuthorizeOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	amount, err := decimal.NewFromString(opts.Amount)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --amount", err)
	}
	scheme, err := payment.ParseScheme(opts.Scheme)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --scheme", err)
	}
	accounts, err := loadFixture(opts.Accounts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load accounts", err)
	}

	id := opts.ID
	if id == "" {
		gen := opts.IDGenerator
		if gen == nil {
			gen = payment.UUIDv7Generator{}
		}
		id = gen.Generate()
	}

	mem := store.NewMemoryStore(0, accounts)
	eng, err := engine.New(mem, validator.NewRegistry(), engine.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create engine", err)
	}

	ctx := commandContext(cmd)
	before, beforeErr := mem.GetAccount(ctx, opts.Debtor)

	req := payment.MakePaymentRequest{
		ID:                id,
		DebtorAccountID:   opts.Debtor,
		CreditorAccountID: opts.Creditor,
		Amount:            amount,
		Scheme:            scheme,
		Date:              time.Now(),
	}
	res, err := eng.Authorize(ctx, &req)
	if err != nil {
		return WrapExitError(ExitCommandError, "authorization failed", err)
	}

	result := AuthorizeResult{
		RequestID: id,
		Debtor:    opts.Debtor,
		Scheme:    scheme.String(),
		Amount:    amount.String(),
		Success:   res.Success,
		Outcome:   res.Outcome.String(),
	}
	if beforeErr == nil {
		after, _ := mem.GetAccount(ctx, opts.Debtor)
		result.BalanceBefore = before.Balance.String()
		result.BalanceAfter = after.Balance.String()
	}

	if !res.Success {
		if err := formatter.Failure(ErrCodeDeclined, "payment declined: "+result.Outcome, result, nil); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "payment declined")
	}

	return formatter.Result(result, func(w io.Writer) {
		fmt.Fprintf(w, "Payment %s authorized\n", id)
		fmt.Fprintf(w, "  Debtor: %s (%s)\n", opts.Debtor, scheme)
		fmt.Fprintf(w, "  Balance: %s -> %s\n", result.BalanceBefore, result.BalanceAfter)
	})
}
