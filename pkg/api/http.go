// Package api exposes the bridge operations and inventory queries over HTTP.
package api

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/chainsafe/mvx-bridge-adapter/pkg/app/errors"
	apphttp "github.com/chainsafe/mvx-bridge-adapter/pkg/app/http"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/audit"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/inventory"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20

	defaultOperationTimeout = 15 * time.Minute
)

// Bridge is the subset of the bridge facade served over HTTP.
type Bridge interface {
	Address() mvx.Address

	LockNative(ctx context.Context, req bridge.NativeTransfer) (*txsubmit.Handle, eventid.ID, error)
	UnlockWrapped(ctx context.Context, req bridge.WrappedUnfreeze) (*txsubmit.Handle, eventid.ID, error)
	LockNft(ctx context.Context, req bridge.NftTransfer) (*txsubmit.Handle, eventid.ID, error)
	UnlockNft(ctx context.Context, req bridge.NftUnfreeze) (*txsubmit.Handle, eventid.ID, error)
	MintNft(ctx context.Context, req bridge.MintNft) (*txsubmit.Handle, error)
	IssueNft(ctx context.Context, req bridge.IssueNft) (*txsubmit.Handle, error)
	SetRoles(ctx context.Context, req bridge.SetRoles) (*txsubmit.Handle, error)

	BuildLockNative(sender mvx.Address, req bridge.NativeTransfer) (*mvx.Transaction, error)
	BuildUnlockWrapped(sender mvx.Address, req bridge.WrappedUnfreeze) (*mvx.Transaction, error)
	BuildLockNft(sender mvx.Address, req bridge.NftTransfer) (*mvx.Transaction, error)
	BuildUnlockNft(sender mvx.Address, req bridge.NftUnfreeze) (*mvx.Transaction, error)
	BuildMintNft(sender mvx.Address, req bridge.MintNft) (*mvx.Transaction, error)
	BuildIssueNft(sender mvx.Address, req bridge.IssueNft) (*mvx.Transaction, error)
	BuildSetRoles(sender mvx.Address, req bridge.SetRoles) (*mvx.Transaction, error)
}

// Inventory answers holdings and balance queries.
type Inventory interface {
	List(ctx context.Context, addr mvx.Address) ([]inventory.Holding, error)
	LockedNft(ctx context.Context, token string, nonce uint64) (*inventory.NFT, error)
	Balances(ctx context.Context, addr mvx.Address, chains []uint64) (map[uint64]*big.Int, error)
}

// Operations looks up audit records. It is optional.
type Operations interface {
	Get(ctx context.Context, id string) (*audit.Record, error)
}

// Config controls the served surface.
type Config struct {
	// Decimals of the native currency; request amounts are given in whole units.
	Decimals int32
	// EnableUnsigned serves unsigned transactions for external signing.
	EnableUnsigned bool
	// OperationTimeout bounds a submitted operation once it no longer follows
	// the request context. Defaults to 15m.
	OperationTimeout time.Duration
}

// HTTP serves the bridge adapter endpoints.
type HTTP struct {
	bridge     Bridge
	inventory  Inventory
	operations Operations
	cfg        Config
	logger     *zap.Logger
}

// RegisterRoutes registers the bridge endpoints on r. ops may be nil, in
// which case operation lookups are not served.
func RegisterRoutes(r chi.Router, b Bridge, inv Inventory, ops Operations, cfg Config, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = defaultOperationTimeout
	}
	h := &HTTP{
		bridge:     b,
		inventory:  inv,
		operations: ops,
		cfg:        cfg,
		logger:     logger,
	}

	r.Post("/transfers/native", apphttp.HandleError(h.lockNative))
	r.Post("/transfers/wrapped", apphttp.HandleError(h.unlockWrapped))
	r.Post("/transfers/nft", apphttp.HandleError(h.lockNft))
	r.Post("/transfers/nft/unfreeze", apphttp.HandleError(h.unlockNft))

	r.Route("/admin", func(r chi.Router) {
		r.Post("/nft/mint", apphttp.HandleError(h.mintNft))
		r.Post("/nft/issue", apphttp.HandleError(h.issueNft))
		r.Post("/roles", apphttp.HandleError(h.setRoles))
	})

	if cfg.EnableUnsigned {
		r.Post("/unsigned/{kind}", apphttp.HandleError(h.unsigned))
	}

	r.Get("/accounts/{address}/holdings", apphttp.HandleError(h.holdings))
	r.Get("/accounts/{address}/balances", apphttp.HandleError(h.balances))
	r.Get("/escrow/nft/{token}/{nonce}", apphttp.HandleError(h.lockedNft))

	if ops != nil {
		r.Get("/operations/{id}", apphttp.HandleError(h.operation))
	}
}

// TransferResponse is returned by the transfer endpoints.
type TransferResponse struct {
	OperationID string `json:"operation_id"`
	TxHash      string `json:"tx_hash"`
	EventID     string `json:"event_id"`
}

// AdminResponse is returned by the administrative endpoints.
type AdminResponse struct {
	OperationID string `json:"operation_id"`
	TxHash      string `json:"tx_hash"`
}

// UnsignedResponse carries a built transaction for external signing.
type UnsignedResponse struct {
	Transaction *mvx.Transaction `json:"transaction"`
	Digest      string           `json:"digest"`
}

type transferFunc func(ctx context.Context) (*txsubmit.Handle, eventid.ID, error)

func (h *HTTP) lockNative(w http.ResponseWriter, r *http.Request) error {
	req, err := h.nativeRequest(r)
	if err != nil {
		return err
	}
	return h.transfer(w, r, bridge.OpLockNative, func(ctx context.Context) (*txsubmit.Handle, eventid.ID, error) {
		return h.bridge.LockNative(ctx, req)
	})
}

func (h *HTTP) unlockWrapped(w http.ResponseWriter, r *http.Request) error {
	req, err := h.nativeRequest(r)
	if err != nil {
		return err
	}
	unfreeze := bridge.WrappedUnfreeze(req)
	return h.transfer(w, r, bridge.OpUnlockWrapped, func(ctx context.Context) (*txsubmit.Handle, eventid.ID, error) {
		return h.bridge.UnlockWrapped(ctx, unfreeze)
	})
}

func (h *HTTP) lockNft(w http.ResponseWriter, r *http.Request) error {
	req, err := h.nftRequest(r)
	if err != nil {
		return err
	}
	return h.transfer(w, r, bridge.OpLockNft, func(ctx context.Context) (*txsubmit.Handle, eventid.ID, error) {
		return h.bridge.LockNft(ctx, req)
	})
}

func (h *HTTP) unlockNft(w http.ResponseWriter, r *http.Request) error {
	req, err := h.nftRequest(r)
	if err != nil {
		return err
	}
	unfreeze := bridge.NftUnfreeze(req)
	return h.transfer(w, r, bridge.OpUnlockNft, func(ctx context.Context) (*txsubmit.Handle, eventid.ID, error) {
		return h.bridge.UnlockNft(ctx, unfreeze)
	})
}

func (h *HTTP) transfer(w http.ResponseWriter, r *http.Request, op bridge.Operation, fn transferFunc) error {
	opID := uuid.NewString()
	ctx, cancel := h.operationContext(r, opID)
	defer cancel()

	handle, id, err := fn(ctx)
	if err != nil {
		return h.fail(op, opID, handle, err)
	}

	h.writeJSON(w, http.StatusOK, &TransferResponse{
		OperationID: opID,
		TxHash:      handle.Hash,
		EventID:     id.String(),
	})
	return nil
}

func (h *HTTP) mintNft(w http.ResponseWriter, r *http.Request) error {
	req, err := h.mintRequest(r)
	if err != nil {
		return err
	}
	return h.admin(w, r, bridge.OpMintNft, func(ctx context.Context) (*txsubmit.Handle, error) {
		return h.bridge.MintNft(ctx, req)
	})
}

func (h *HTTP) issueNft(w http.ResponseWriter, r *http.Request) error {
	req, err := h.issueRequest(r)
	if err != nil {
		return err
	}
	return h.admin(w, r, bridge.OpIssueNft, func(ctx context.Context) (*txsubmit.Handle, error) {
		return h.bridge.IssueNft(ctx, req)
	})
}

func (h *HTTP) setRoles(w http.ResponseWriter, r *http.Request) error {
	req, err := h.rolesRequest(r)
	if err != nil {
		return err
	}
	return h.admin(w, r, bridge.OpSetRoles, func(ctx context.Context) (*txsubmit.Handle, error) {
		return h.bridge.SetRoles(ctx, req)
	})
}

func (h *HTTP) admin(w http.ResponseWriter, r *http.Request, op bridge.Operation, fn func(ctx context.Context) (*txsubmit.Handle, error)) error {
	opID := uuid.NewString()
	ctx, cancel := h.operationContext(r, opID)
	defer cancel()

	handle, err := fn(ctx)
	if err != nil {
		return h.fail(op, opID, handle, err)
	}

	h.writeJSON(w, http.StatusOK, &AdminResponse{OperationID: opID, TxHash: handle.Hash})
	return nil
}

// operationContext detaches a submitting operation from the request: once a
// transaction is broadcast the watch and relay notification run to completion
// even if the client goes away, bounded only by OperationTimeout.
func (h *HTTP) operationContext(r *http.Request, opID string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.cfg.OperationTimeout)
	return bridge.WithOperationID(ctx, opID), cancel
}

// unsigned builds a transaction without submitting it. The sender defaults
// to the adapter's own account and can be overridden with ?sender=erd1...
func (h *HTTP) unsigned(w http.ResponseWriter, r *http.Request) error {
	sender := h.bridge.Address()
	if s := r.URL.Query().Get("sender"); s != "" {
		addr, err := mvx.AddressFromBech32(s)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid sender address")
		}
		sender = addr
	}

	var (
		tx  *mvx.Transaction
		err error
	)
	switch kind := chi.URLParam(r, "kind"); kind {
	case "native":
		var req bridge.NativeTransfer
		if req, err = h.nativeRequest(r); err == nil {
			tx, err = h.bridge.BuildLockNative(sender, req)
		}
	case "wrapped":
		var req bridge.NativeTransfer
		if req, err = h.nativeRequest(r); err == nil {
			tx, err = h.bridge.BuildUnlockWrapped(sender, bridge.WrappedUnfreeze(req))
		}
	case "nft":
		var req bridge.NftTransfer
		if req, err = h.nftRequest(r); err == nil {
			tx, err = h.bridge.BuildLockNft(sender, req)
		}
	case "nft-unfreeze":
		var req bridge.NftTransfer
		if req, err = h.nftRequest(r); err == nil {
			tx, err = h.bridge.BuildUnlockNft(sender, bridge.NftUnfreeze(req))
		}
	case "mint":
		var req bridge.MintNft
		if req, err = h.mintRequest(r); err == nil {
			tx, err = h.bridge.BuildMintNft(sender, req)
		}
	case "issue":
		var req bridge.IssueNft
		if req, err = h.issueRequest(r); err == nil {
			tx, err = h.bridge.BuildIssueNft(sender, req)
		}
	case "roles":
		var req bridge.SetRoles
		if req, err = h.rolesRequest(r); err == nil {
			tx, err = h.bridge.BuildSetRoles(sender, req)
		}
	default:
		return apperrors.ResourceNotFoundError(nil, "unknown transaction kind "+strconv.Quote(kind))
	}
	if err != nil {
		return toServiceError(err)
	}

	digest, err := tx.Digest()
	if err != nil {
		return apperrors.GeneralError(err)
	}

	h.writeJSON(w, http.StatusOK, &UnsignedResponse{Transaction: tx, Digest: hex.EncodeToString(digest[:])})
	return nil
}

func (h *HTTP) holdings(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}

	list, err := h.inventory.List(r.Context(), addr)
	if err != nil {
		return toServiceError(err)
	}

	views := make([]holdingView, 0, len(list))
	for _, item := range list {
		views = append(views, toHoldingView(item))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"address":  addr.Bech32(),
		"holdings": views,
	})
	return nil
}

func (h *HTTP) balances(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}

	chains, err := parseChains(r.URL.Query().Get("chains"))
	if err != nil {
		return err
	}

	balances, err := h.inventory.Balances(r.Context(), addr, chains)
	if err != nil {
		return toServiceError(err)
	}

	out := make(map[string]string, len(balances))
	for chain, v := range balances {
		out[strconv.FormatUint(chain, 10)] = v.String()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"address":  addr.Bech32(),
		"balances": out,
	})
	return nil
}

func (h *HTTP) lockedNft(w http.ResponseWriter, r *http.Request) error {
	token := chi.URLParam(r, "token")
	nonce, err := strconv.ParseUint(chi.URLParam(r, "nonce"), 10, 64)
	if err != nil {
		return apperrors.BadRequestError(err, "invalid nonce")
	}

	nft, err := h.inventory.LockedNft(r.Context(), token, nonce)
	if err != nil {
		return toServiceError(err)
	}

	h.writeJSON(w, http.StatusOK, toHoldingView(nft))
	return nil
}

func (h *HTTP) operation(w http.ResponseWriter, r *http.Request) error {
	rec, err := h.operations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return toServiceError(err)
	}

	h.writeJSON(w, http.StatusOK, rec)
	return nil
}

// fail logs a failed operation and converts err for the client. When the
// transaction was already broadcast its hash is part of the message.
func (h *HTTP) fail(op bridge.Operation, opID string, handle *txsubmit.Handle, err error) error {
	fields := []zap.Field{
		zap.String("operation", string(op)),
		zap.String("operation_id", opID),
		zap.Error(err),
	}
	if handle != nil {
		fields = append(fields, zap.String("tx_hash", handle.Hash))
	}
	h.logger.Warn("Bridge operation failed", fields...)

	svcErr := toServiceError(err)
	var se *apperrors.ServiceError
	if handle != nil && errors.As(svcErr, &se) {
		se.Message += " (operation " + opID + ", tx " + handle.Hash + ")"
	}
	return svcErr
}

func (h *HTTP) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func decodeBody(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func addressParam(r *http.Request) (mvx.Address, error) {
	addr, err := mvx.AddressFromBech32(chi.URLParam(r, "address"))
	if err != nil {
		return nil, apperrors.BadRequestError(err, "invalid address")
	}
	return addr, nil
}

func parseChains(s string) ([]uint64, error) {
	if s == "" {
		return nil, apperrors.BadRequestError(nil, "chains query parameter is required")
	}
	parts := strings.Split(s, ",")
	chains := make([]uint64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, apperrors.BadRequestError(err, "invalid chain nonce "+strconv.Quote(p))
		}
		chains = append(chains, n)
	}
	return chains, nil
}
