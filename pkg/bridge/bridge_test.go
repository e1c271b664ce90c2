package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/eventid"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/notifier"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSeed = "413f42575f7f26fad3317a778771212fdb80245850981e48b58a4f25e344e8f9"

type instantClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *instantClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

func testSigner(t *testing.T) mvx.Signer {
	t.Helper()
	s, err := mvx.NewEd25519SignerFromHex(testSeed)
	require.NoError(t, err)
	return s
}

// fakeLedger finalizes every broadcast transaction with one valid result carrying id 7.
func fakeLedger(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	polls := 0

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/address/"):
			_, _ = io.WriteString(w, `{"data":{"account":{"nonce":11}},"code":"successful"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/transaction/send":
			var tx mvx.Transaction
			require.NoError(t, json.NewDecoder(r.Body).Decode(&tx))
			assert.Equal(t, uint64(11), tx.Nonce)
			assert.NotEmpty(t, tx.Signature)
			_, _ = io.WriteString(w, `{"data":{"txHash":"tx-1"},"code":"successful"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/transaction/tx-1":
			mu.Lock()
			polls++
			first := polls == 1
			mu.Unlock()
			if first {
				_, _ = io.WriteString(w, `{"data":{"transaction":{"status":"pending"}},"code":"successful"}`)
				return
			}
			_, _ = io.WriteString(w, `{"data":{"transaction":{"status":"success","smartContractResults":[
				{"nonce":0,"data":"@6f6b"},{"nonce":12,"data":"@6f6b@07"}]}},"code":"successful"}`)
		default:
			t.Errorf("unexpected ledger call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestBridge_LockNativeEndToEnd(t *testing.T) {
	ledgerSrv := fakeLedger(t)
	defer ledgerSrv.Close()

	var (
		mu        sync.Mutex
		relayHits []string
		headerIDs []string
	)
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		relayHits = append(relayHits, body["id"])
		headerIDs = append(headerIDs, r.Header.Get("id"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer relaySrv.Close()

	client, err := mvx.New(&mvx.Config{ProxyURL: ledgerSrv.URL, ChainID: "T"})
	require.NoError(t, err)
	watcher, err := finality.New(client, nil, finality.WithClock(&instantClock{now: time.Unix(0, 0)}))
	require.NoError(t, err)
	relay, err := notifier.New(&notifier.Config{URL: relaySrv.URL}, nil)
	require.NoError(t, err)

	b := New(newTestBuilder(t), testSigner(t), txsubmit.New(client, "mvx", nil), watcher, relay)

	handle, id, err := b.LockNative(context.Background(), NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(100)})
	require.NoError(t, err)

	assert.Equal(t, "tx-1", handle.Hash)
	assert.Equal(t, eventid.ID(7), id)
	assert.Equal(t, uint64(11), handle.Signed.Nonce)
	assert.Equal(t, []string{"7"}, relayHits)
	assert.Equal(t, []string{"7"}, headerIDs)
}

func TestBridge_RecordsStages(t *testing.T) {
	rec := &MockRecorder{}
	for _, stage := range []Stage{StageSubmitted, StageFinalized, StageExtracted, StageNotified} {
		stage := stage
		rec.On("Record", mock.Anything, mock.MatchedBy(func(ev Event) bool {
			return ev.Stage == stage && ev.OperationID == "op-1" && ev.Operation == OpUnlockNft && ev.Digest != ""
		})).Return(nil).Once()
	}

	waiter := &MockWaiter{WaitFunc: func(context.Context, string) (*finality.Result, error) {
		return &finality.Result{Status: finality.StatusSuccess, Results: []mvx.ContractResult{{Nonce: 3, Data: "@6f6b@2a"}}}, nil
	}}
	b := New(newTestBuilder(t), testSigner(t), &MockSender{}, waiter, &MockNotifier{}, WithRecorder(rec))

	ctx := WithOperationID(context.Background(), "op-1")
	_, id, err := b.UnlockNft(ctx, NftUnfreeze{ChainNonce: evmChain, To: evmTo, Token: "WART-1a2b3c", Nonce: 1})
	require.NoError(t, err)
	assert.Equal(t, eventid.ID(42), id)
	rec.AssertExpectations(t)
}

func TestBridge_RecorderErrorsDoNotFailOperation(t *testing.T) {
	rec := &MockRecorder{}
	rec.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down"))

	b := New(newTestBuilder(t), testSigner(t), &MockSender{}, &MockWaiter{}, &MockNotifier{}, WithRecorder(rec))

	handle, err := b.SetRoles(context.Background(), SetRoles{Token: "ART-1a2b3c", Address: testAddress(2), Roles: []string{"ESDTRoleNFTCreate"}})
	require.NoError(t, err)
	assert.Equal(t, "hash", handle.Hash)
}

func TestBridge_AdminOperationsSkipExtraction(t *testing.T) {
	notified := false
	b := New(newTestBuilder(t), testSigner(t), &MockSender{}, &MockWaiter{}, &MockNotifier{
		NotifyFunc: func(context.Context, eventid.ID) error {
			notified = true
			return nil
		},
	})

	_, err := b.MintNft(context.Background(), MintNft{Token: "ART-1a2b3c", Name: "x", URIs: []string{"u"}})
	require.NoError(t, err)
	_, err = b.IssueNft(context.Background(), IssueNft{Name: "ArtCollection", Ticker: "ART"})
	require.NoError(t, err)

	assert.False(t, notified)
}

func TestBridge_ExtractionFailureSkipsNotify(t *testing.T) {
	notified := false
	rec := &MockRecorder{}
	rec.On("Record", mock.Anything, mock.MatchedBy(func(ev Event) bool { return ev.Stage != StageFailed })).Return(nil)
	rec.On("Record", mock.Anything, mock.MatchedBy(func(ev Event) bool { return ev.Stage == StageFailed && ev.Err != nil })).Return(nil).Once()

	waiter := &MockWaiter{WaitFunc: func(context.Context, string) (*finality.Result, error) {
		return &finality.Result{Status: finality.StatusSuccess, Results: []mvx.ContractResult{{Nonce: 1, Data: "@not_ok@1"}}}, nil
	}}
	b := New(newTestBuilder(t), testSigner(t), &MockSender{}, waiter, &MockNotifier{
		NotifyFunc: func(context.Context, eventid.ID) error {
			notified = true
			return nil
		},
	}, WithRecorder(rec))

	handle, _, err := b.LockNft(context.Background(), NftTransfer{ChainNonce: evmChain, To: evmTo, Token: "ART-1a2b3c", Nonce: 1})

	var extErr *eventid.ExtractionError
	require.True(t, errors.As(err, &extErr))
	require.NotNil(t, handle)
	assert.False(t, notified)
	rec.AssertExpectations(t)
}

func TestBridge_FailuresPropagate(t *testing.T) {
	t.Run("submission", func(t *testing.T) {
		sender := &MockSender{SendFunc: func(context.Context, mvx.Signer, *mvx.Transaction) (*txsubmit.Handle, error) {
			return nil, &txsubmit.SubmissionError{Stage: txsubmit.StageBroadcast, Err: errors.New("rejected")}
		}}
		b := New(newTestBuilder(t), testSigner(t), sender, &MockWaiter{}, &MockNotifier{})

		handle, _, err := b.LockNative(context.Background(), NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(1)})
		var subErr *txsubmit.SubmissionError
		require.True(t, errors.As(err, &subErr))
		assert.Nil(t, handle)
	})

	t.Run("finality", func(t *testing.T) {
		waiter := &MockWaiter{WaitFunc: func(_ context.Context, hash string) (*finality.Result, error) {
			return nil, &finality.FinalityError{Hash: hash, Err: finality.ErrTimeout}
		}}
		b := New(newTestBuilder(t), testSigner(t), &MockSender{}, waiter, &MockNotifier{})

		handle, _, err := b.UnlockWrapped(context.Background(), WrappedUnfreeze{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(1)})
		assert.ErrorIs(t, err, finality.ErrTimeout)
		assert.Equal(t, "hash", handle.Hash)
	})

	t.Run("notification", func(t *testing.T) {
		waiter := &MockWaiter{WaitFunc: func(context.Context, string) (*finality.Result, error) {
			return &finality.Result{Status: finality.StatusSuccess, Results: []mvx.ContractResult{{Nonce: 1, Data: "@6f6b@01"}}}, nil
		}}
		calls := 0
		n := &MockNotifier{NotifyFunc: func(_ context.Context, id eventid.ID) error {
			calls++
			return &notifier.NotificationError{ID: id, StatusCode: http.StatusBadGateway}
		}}
		b := New(newTestBuilder(t), testSigner(t), &MockSender{}, waiter, n)

		_, _, err := b.LockNative(context.Background(), NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(1)})
		var notifyErr *notifier.NotificationError
		require.True(t, errors.As(err, &notifyErr))
		assert.Equal(t, 1, calls)
	})

	t.Run("invalid request does no io", func(t *testing.T) {
		sender := &MockSender{SendFunc: func(context.Context, mvx.Signer, *mvx.Transaction) (*txsubmit.Handle, error) {
			t.Fatal("sender must not be called")
			return nil, nil
		}}
		b := New(newTestBuilder(t), testSigner(t), sender, &MockWaiter{}, &MockNotifier{})

		_, _, err := b.LockNative(context.Background(), NativeTransfer{ChainNonce: evmChain, To: "nope", Amount: big.NewInt(1)})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
