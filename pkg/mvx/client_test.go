package mvx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(&Config{ProxyURL: srv.URL, ChainID: "T"})
	require.NoError(t, err)
	return c
}

func testAddress(t *testing.T) Address {
	t.Helper()
	addr, err := AddressFromPublicKey(make([]byte, AddressLen))
	require.NoError(t, err)
	return addr
}

func TestNew_AppliesDefaults(t *testing.T) {
	cfg := &Config{ProxyURL: "http://localhost:7950"}
	c, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "D", c.ChainID())
	assert.NotZero(t, cfg.Timeout)
}

func TestNew_RejectsMissingURL(t *testing.T) {
	_, err := New(&Config{})
	require.Error(t, err)
}

func TestClient_GetAccount(t *testing.T) {
	addr := testAddress(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/"+addr.Bech32(), r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"account":{"address":"x","nonce":42,"balance":"1000"}},"code":"successful"}`)
	})

	acc, err := c.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), acc.Nonce)
	assert.Equal(t, "1000", acc.Balance)
}

func TestClient_SendTransaction(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/send", r.URL.Path)

		var tx Transaction
		require.NoError(t, json.NewDecoder(r.Body).Decode(&tx))
		assert.Equal(t, uint64(7), tx.Nonce)
		assert.Equal(t, []byte("freezeSend@04"), tx.Data)

		_, _ = io.WriteString(w, `{"data":{"txHash":"abc123"},"code":"successful"}`)
	})

	hash, err := c.SendTransaction(context.Background(), &Transaction{Nonce: 7, Value: "0", Data: []byte("freezeSend@04")})
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)
}

func TestClient_SendTransaction_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"data":null,"error":"lowerNonceInTx","code":"bad_request"}`)
	})

	_, err := c.SendTransaction(context.Background(), &Transaction{})
	var envErr *EnvelopeError
	require.True(t, errors.As(err, &envErr))
	assert.Equal(t, "bad_request", envErr.Code)
	assert.Equal(t, http.StatusBadRequest, envErr.HTTPStatus)
	assert.Equal(t, "lowerNonceInTx", envErr.Message)
}

func TestClient_GetTransactionStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/deadbeef", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("withResults"))
		_, _ = io.WriteString(w, `{"data":{"transaction":{"status":"success","smartContractResults":[
			{"nonce":0,"data":"@6f6b"},{"nonce":12,"data":"@6f6b@07"}]}},"code":"successful"}`)
	})

	tx, err := c.GetTransactionStatus(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, tx.Status)
	assert.Equal(t, "deadbeef", tx.Hash)
	require.Len(t, tx.SmartContractResults, 2)
	assert.Equal(t, ContractResult{Nonce: 12, Data: "@6f6b@07"}, tx.SmartContractResults[1])
}

func TestClient_GetTransactionStatus_MalformedEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>gateway timeout</html>`)
	})

	_, err := c.GetTransactionStatus(context.Background(), "deadbeef")
	var envErr *EnvelopeError
	require.True(t, errors.As(err, &envErr))
	assert.Contains(t, envErr.Message, "malformed response")
}

func TestClient_GetTokens(t *testing.T) {
	addr := testAddress(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/address/"+addr.Bech32()+"/esdt", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":{"esdts":{
			"WEGLD-abcdef":{"tokenIdentifier":"WEGLD-abcdef","balance":"500"},
			"NFT-123456-0a":{"tokenIdentifier":"NFT-123456-0a","balance":"1","creator":"erd1c","name":"n","nonce":10,"royalties":"250","uris":["aHR0cA=="]}
		}},"code":"successful"}`)
	})

	tokens, err := c.GetTokens(context.Background(), addr)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "500", tokens["WEGLD-abcdef"].Balance)
	assert.Equal(t, uint64(10), tokens["NFT-123456-0a"].Nonce)
	assert.Equal(t, []string{"aHR0cA=="}, tokens["NFT-123456-0a"].URIs)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := New(&Config{ProxyURL: srv.URL})
	require.NoError(t, err)

	_, err = c.GetTransactionStatus(context.Background(), "h")
	require.Error(t, err)
	var envErr *EnvelopeError
	assert.False(t, errors.As(err, &envErr))
}
