// Package mvx implements a client for the ledger's REST gateway (proxy).
//
// It covers the four calls the bridge adapter needs: account state for nonce
// synchronization, transaction broadcast, transaction status with contract
// results, and account token holdings. It also carries the transaction wire
// model, call-data argument encoding, bech32 addresses and an ed25519 signer.
package mvx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Limit body reads so a misbehaving gateway cannot exhaust memory.
const maxBodyBytes = 4 << 20

// Client is a gateway client bound to one proxy endpoint.
type Client struct {
	cfg        *Config
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a new gateway client.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := applyOptions(opts)
	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(cfg.ProxyURL, "/"),
		httpClient: httpClient,
		logger:     s.logger,
	}, nil
}

// ChainID returns the chain identifier transactions must carry.
func (c *Client) ChainID() string {
	return c.cfg.ChainID
}

// GetAccount returns the current state of an account, including its nonce.
func (c *Client) GetAccount(ctx context.Context, addr Address) (*Account, error) {
	var env envelope[accountData]
	if err := c.do(ctx, http.MethodGet, "/address/"+addr.Bech32(), nil, &env); err != nil {
		return nil, err
	}
	return &env.Data.Account, nil
}

// SendTransaction broadcasts a signed transaction and returns its hash.
func (c *Client) SendTransaction(ctx context.Context, tx *Transaction) (string, error) {
	body, err := json.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("marshal transaction: %w", err)
	}

	var env envelope[sendData]
	if err := c.do(ctx, http.MethodPost, "/transaction/send", body, &env); err != nil {
		return "", err
	}
	if env.Data.TxHash == "" {
		return "", &EnvelopeError{Path: "/transaction/send", HTTPStatus: http.StatusOK, Code: env.Code, Message: "missing txHash"}
	}

	c.logger.Debug("Transaction broadcast",
		zap.String("tx_hash", env.Data.TxHash),
		zap.Uint64("nonce", tx.Nonce),
		zap.String("receiver", tx.Receiver))

	return env.Data.TxHash, nil
}

// GetTransactionStatus returns the processing status of a transaction together
// with its smart contract results.
//
// An *EnvelopeError means the gateway answered but not with a successful
// envelope; any other error is a transport failure.
func (c *Client) GetTransactionStatus(ctx context.Context, hash string) (*TransactionOnNetwork, error) {
	path := "/transaction/" + url.PathEscape(hash) + "?withResults=true"

	var env envelope[statusData]
	if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	tx := env.Data.Transaction
	if tx.Hash == "" {
		tx.Hash = hash
	}
	return &tx, nil
}

// GetTokens returns all token holdings of an account keyed as the gateway keys them.
func (c *Client) GetTokens(ctx context.Context, addr Address) (map[string]TokenData, error) {
	var env envelope[tokensData]
	if err := c.do(ctx, http.MethodGet, "/address/"+addr.Bech32()+"/esdt", nil, &env); err != nil {
		return nil, err
	}
	if env.Data.ESDTs == nil {
		return map[string]TokenData{}, nil
	}
	return env.Data.ESDTs, nil
}

// do performs one request and decodes a gateway envelope into out.
// Every response that is not a decodable envelope with CodeSuccessful
// becomes an *EnvelopeError.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("call gateway %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read gateway %s response: %w", path, err)
	}

	var head struct {
		Code  string `json:"code"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return &EnvelopeError{Path: path, HTTPStatus: resp.StatusCode, Message: "malformed response: " + truncate(raw)}
	}
	if head.Code != CodeSuccessful || resp.StatusCode != http.StatusOK {
		return &EnvelopeError{Path: path, HTTPStatus: resp.StatusCode, Code: head.Code, Message: head.Error}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &EnvelopeError{Path: path, HTTPStatus: resp.StatusCode, Code: head.Code, Message: "decode data: " + err.Error()}
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 256
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
