// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package provider binds Solana JSON-RPC endpoints to a signing wallet, in
// the manner of an anchor provider: one value carrying the connection and
// the identity that pays for and signs transactions. It adds endpoint
// fallback, transaction confirmation polling, rate limiting and request
// metrics on top of the raw RPC client.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"golang.org/x/time/rate"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/expbackoff"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/solutil"
	"github.com/padfi/launchpad-go/solutil/keystore"
)

// ErrAccountNotFound is returned when an account does not exist at the
// queried address.
var ErrAccountNotFound = errors.NewSentinel("account not found")

// ErrProgramNotDeployed is returned when a program address resolves to no
// account or to a non-executable account.
var ErrProgramNotDeployed = errors.NewSentinel("program not deployed")

// TxError is returned when a transaction failed preflight simulation or was
// included on-chain but failed. Reason is the decoded JSON error value
// reported by the RPC node.
type TxError struct {
	Signature solana.Signature
	Reason    any
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction failed: %v", e.Reason)
}

// Provider wraps one or more RPC endpoints and a signing wallet.
type Provider struct {
	clients    []*client
	wallet     solana.PrivateKey
	conf       Config
	commitment rpc.CommitmentType
}

// client is a single RPC endpoint with its rate limiter.
type client struct {
	endpoint string
	rpc      *rpc.Client
	limiter  *rate.Limiter
	timeout  time.Duration
}

// New returns a provider connecting the configured endpoints to the wallet
// loaded from the configured keypair file.
func New(conf Config) (*Provider, error) {
	err := conf.Verify()
	if err != nil {
		return nil, err
	}

	wallet, err := keystore.Load(conf.WalletPath)
	if err != nil {
		return nil, err
	}

	return newProvider(conf, wallet)
}

// NewForT returns a provider with an in-memory wallet for testing.
func NewForT(wallet solana.PrivateKey, endpoints ...string) *Provider {
	conf := DefaultConfig()
	conf.Endpoints = endpoints
	conf.ConfirmTimeout = 5 * time.Second

	p, err := newProvider(conf, wallet)
	if err != nil {
		panic(err)
	}

	return p
}

func newProvider(conf Config, wallet solana.PrivateKey) (*Provider, error) {
	commitment, err := conf.commitment()
	if err != nil {
		return nil, err
	}

	clients := make([]*client, 0, len(conf.Endpoints))

	for _, endpoint := range conf.Endpoints {
		var limiter *rate.Limiter
		if conf.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(conf.RateLimit), 1)
		}

		clients = append(clients, &client{
			endpoint: endpoint,
			rpc:      rpc.New(endpoint),
			limiter:  limiter,
			timeout:  conf.Timeout,
		})
	}

	return &Provider{
		clients:    clients,
		wallet:     wallet,
		conf:       conf,
		commitment: commitment,
	}, nil
}

// Wallet returns the signing wallet keypair.
func (p *Provider) Wallet() solana.PrivateKey {
	return p.wallet
}

// Address returns the wallet public key, the default fee payer.
func (p *Provider) Address() solana.PublicKey {
	return p.wallet.PublicKey()
}

// Commitment returns the configured confirmation commitment.
func (p *Provider) Commitment() rpc.CommitmentType {
	return p.commitment
}

// Connect verifies the endpoint is reachable and identifies the cluster
// behind it from its genesis hash.
func (p *Provider) Connect(ctx context.Context) (solutil.Cluster, error) {
	var (
		version *rpc.GetVersionResult
		genesis solana.Hash
	)

	err := p.do(ctx, "get_version", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		version, err = cl.GetVersion(ctx)

		return err
	})
	if err != nil {
		return solutil.Cluster{}, errors.Wrap(err, "connect rpc endpoint")
	}

	err = p.do(ctx, "get_genesis_hash", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		genesis, err = cl.GetGenesisHash(ctx)

		return err
	})
	if err != nil {
		return solutil.Cluster{}, errors.Wrap(err, "fetch genesis hash")
	}

	cluster := solutil.SetCurrentCluster(genesis.String())

	log.Info(ctx, "Connected to cluster",
		z.Str("cluster", cluster.Name),
		z.Str("solana_core", version.SolanaCore),
		z.Str("wallet", p.Address().String()),
	)

	return cluster, nil
}

// LatestBlockhash returns the latest blockhash at the configured commitment.
func (p *Provider) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var resp *rpc.GetLatestBlockhashResult

	err := p.do(ctx, "get_latest_blockhash", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		resp, err = cl.GetLatestBlockhash(ctx, p.commitment)

		return err
	})
	if err != nil {
		return solana.Hash{}, errors.Wrap(err, "fetch latest blockhash")
	}

	return resp.Value.Blockhash, nil
}

// Balance returns the lamport balance of the given address.
func (p *Provider) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	var resp *rpc.GetBalanceResult

	err := p.do(ctx, "get_balance", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		resp, err = cl.GetBalance(ctx, addr, p.commitment)

		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "fetch balance", z.Str("address", addr.String()))
	}

	return resp.Value, nil
}

// AccountInfo returns the account at the given address, or
// ErrAccountNotFound if it does not exist.
func (p *Provider) AccountInfo(ctx context.Context, addr solana.PublicKey) (*rpc.Account, error) {
	var resp *rpc.GetAccountInfoResult

	err := p.do(ctx, "get_account_info", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		resp, err = cl.GetAccountInfoWithOpts(ctx, addr, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: p.commitment,
		})

		return err
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, errors.Wrap(ErrAccountNotFound, "fetch account", z.Str("address", addr.String()))
	} else if err != nil {
		return nil, errors.Wrap(err, "fetch account", z.Str("address", addr.String()))
	}

	if resp.Value == nil {
		return nil, errors.Wrap(ErrAccountNotFound, "fetch account", z.Str("address", addr.String()))
	}

	return resp.Value, nil
}

// AccountData returns the raw data of the account at the given address.
func (p *Provider) AccountData(ctx context.Context, addr solana.PublicKey) ([]byte, error) {
	account, err := p.AccountInfo(ctx, addr)
	if err != nil {
		return nil, err
	}

	if account.Data == nil {
		return nil, nil
	}

	return account.Data.GetBinary(), nil
}

// ResolveProgram resolves a registered program name to its address and
// verifies an executable account is deployed there.
func (p *Provider) ResolveProgram(ctx context.Context, name string) (solana.PublicKey, error) {
	id, err := ProgramByName(name)
	if err != nil {
		return solana.PublicKey{}, err
	}

	account, err := p.AccountInfo(ctx, id)
	if errors.Is(err, ErrAccountNotFound) {
		return solana.PublicKey{}, errors.Wrap(ErrProgramNotDeployed, "resolve program",
			z.Str("program", name), z.Str("address", id.String()))
	} else if err != nil {
		return solana.PublicKey{}, err
	}

	if !account.Executable {
		return solana.PublicKey{}, errors.Wrap(ErrProgramNotDeployed, "account not executable",
			z.Str("program", name), z.Str("address", id.String()))
	}

	return id, nil
}

// ProgramAccounts returns all accounts owned by the given program whose data
// starts with the given prefix, or all its accounts if prefix is empty.
func (p *Provider) ProgramAccounts(ctx context.Context, program solana.PublicKey, prefix []byte) ([]*rpc.KeyedAccount, error) {
	opts := &rpc.GetProgramAccountsOpts{
		Commitment: p.commitment,
		Encoding:   solana.EncodingBase64,
	}

	if len(prefix) > 0 {
		opts.Filters = []rpc.RPCFilter{{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: 0,
				Bytes:  solana.Base58(prefix),
			},
		}}
	}

	var resp rpc.GetProgramAccountsResult

	err := p.do(ctx, "get_program_accounts", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		resp, err = cl.GetProgramAccountsWithOpts(ctx, program, opts)

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch program accounts", z.Str("program", program.String()))
	}

	return resp, nil
}

// SendAndConfirm signs the instructions with the wallet and any extra
// signers, submits the transaction and blocks until it reaches the
// configured commitment. It returns the transaction signature.
func (p *Provider) SendAndConfirm(ctx context.Context, instructions []solana.Instruction, extraSigners ...solana.PrivateKey) (solana.Signature, error) {
	tx, err := p.buildTx(ctx, instructions, extraSigners)
	if err != nil {
		return solana.Signature{}, err
	}

	var sig solana.Signature

	err = p.do(ctx, "send_transaction", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		sig, err = cl.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			PreflightCommitment: p.commitment,
		})

		return err
	})
	if err != nil {
		incTxResult("rejected")
		return solana.Signature{}, errors.Wrap(err, "send transaction")
	}

	t0 := time.Now()

	err = p.waitConfirm(ctx, sig)
	if err != nil {
		incTxResult("failed")
		return sig, err
	}

	incTxResult("confirmed")
	confirmLatency.Observe(time.Since(t0).Seconds())

	log.Debug(ctx, "Transaction confirmed",
		z.Str("signature", sig.String()),
		z.Dur("duration", time.Since(t0)),
	)

	return sig, nil
}

// Simulate signs the instructions and runs them through preflight simulation
// without submitting. It returns a TxError if the simulated execution failed.
func (p *Provider) Simulate(ctx context.Context, instructions []solana.Instruction, extraSigners ...solana.PrivateKey) (*rpc.SimulateTransactionResult, error) {
	tx, err := p.buildTx(ctx, instructions, extraSigners)
	if err != nil {
		return nil, err
	}

	var resp *rpc.SimulateTransactionResponse

	err = p.do(ctx, "simulate_transaction", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		resp, err = cl.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
			SigVerify:  true,
			Commitment: p.commitment,
		})

		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "simulate transaction")
	}

	if resp.Value != nil && resp.Value.Err != nil {
		return resp.Value, &TxError{Reason: resp.Value.Err}
	}

	return resp.Value, nil
}

// Airdrop requests lamports from the cluster faucet and awaits confirmation.
// Faucets are only available on local validators, devnet and testnet.
func (p *Provider) Airdrop(ctx context.Context, addr solana.PublicKey, lamports uint64) (solana.Signature, error) {
	var sig solana.Signature

	err := p.do(ctx, "request_airdrop", func(ctx context.Context, cl *rpc.Client) error {
		var err error
		sig, err = cl.RequestAirdrop(ctx, addr, lamports, p.commitment)

		return err
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "request airdrop")
	}

	err = p.waitConfirm(ctx, sig)
	if err != nil {
		return sig, err
	}

	return sig, nil
}

// Close closes all endpoint connections.
func (p *Provider) Close() error {
	for _, cl := range p.clients {
		if err := cl.rpc.Close(); err != nil {
			return errors.Wrap(err, "close rpc client", z.Str("endpoint", cl.endpoint))
		}
	}

	return nil
}

// buildTx assembles and signs a transaction paying fees from the wallet.
func (p *Provider) buildTx(ctx context.Context, instructions []solana.Instruction, extraSigners []solana.PrivateKey) (*solana.Transaction, error) {
	blockhash, err := p.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(p.Address()))
	if err != nil {
		return nil, errors.Wrap(err, "new transaction")
	}

	signers := make(map[solana.PublicKey]*solana.PrivateKey)
	signers[p.wallet.PublicKey()] = &p.wallet

	for i := range extraSigners {
		key := extraSigners[i]
		signers[key.PublicKey()] = &key
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return signers[key]
	})
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	return tx, nil
}

// waitConfirm polls the signature status until it reaches the configured
// commitment, the transaction fails, or the confirm timeout expires.
func (p *Provider) waitConfirm(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, p.conf.ConfirmTimeout)
	defer cancel()

	ctx = errors.WithCtxErr(ctx, "timeout awaiting confirmation", z.Str("signature", sig.String()))

	backoff := expbackoff.New(ctx, expbackoff.WithFastConfig())
	filter := log.Filter()

	for ctx.Err() == nil {
		var resp *rpc.GetSignatureStatusesResult

		err := p.do(ctx, "get_signature_statuses", func(ctx context.Context, cl *rpc.Client) error {
			var err error
			resp, err = cl.GetSignatureStatuses(ctx, false, sig)

			return err
		})
		if err != nil {
			log.Warn(ctx, "Failed fetching signature status, retrying", err, filter)
			backoff()

			continue
		}

		if len(resp.Value) > 0 && resp.Value[0] != nil {
			status := resp.Value[0]

			if status.Err != nil {
				return &TxError{Signature: sig, Reason: status.Err}
			}

			if commitmentReached(status.ConfirmationStatus, p.commitment) {
				return nil
			}
		}

		backoff()
	}

	return ctx.Err()
}

// do runs fn against the endpoints in order, failing over to the next on
// transport errors. RPC level errors are returned directly since the node
// answered and a fallback would answer the same.
func (p *Provider) do(ctx context.Context, method string, fn func(context.Context, *rpc.Client) error) error {
	var firstErr error

	for i, cl := range p.clients {
		err := cl.do(ctx, method, fn)
		if err == nil {
			return nil
		}

		if firstErr == nil {
			firstErr = err
		}

		if errors.Is(err, rpc.ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			return err
		}

		if i < len(p.clients)-1 {
			log.Warn(ctx, "RPC endpoint unreachable, trying fallback", err,
				z.Str("endpoint", cl.endpoint))
		}
	}

	return firstErr
}

// do runs fn against this endpoint applying rate limit, timeout and metrics.
func (c *client) do(ctx context.Context, method string, fn func(context.Context, *rpc.Client) error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limit wait")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	t0 := time.Now()

	err := fn(ctx, c.rpc)

	rpcLatency.WithLabelValues(c.endpoint, method).Observe(time.Since(t0).Seconds())

	if err != nil {
		rpcErrors.WithLabelValues(c.endpoint, method).Inc()
		return err
	}

	return nil
}

// commitmentReached returns true if the reached confirmation status
// satisfies the target commitment.
func commitmentReached(status rpc.ConfirmationStatusType, target rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.CommitmentProcessed):
			return 1
		case string(rpc.CommitmentConfirmed):
			return 2
		case string(rpc.CommitmentFinalized):
			return 3
		default:
			return 0
		}
	}

	return rank(string(status)) >= rank(string(target))
}
