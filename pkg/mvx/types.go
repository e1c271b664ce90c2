package mvx

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// CodeSuccessful is the envelope code the gateway uses for a well-formed answer.
const CodeSuccessful = "successful"

// Transaction statuses reported by the gateway.
const (
	StatusPending           = "pending"
	StatusReceived          = "received"
	StatusPartiallyExecuted = "partially-executed"
	StatusSuccess           = "success"
	StatusFail              = "fail"
	StatusInvalid           = "invalid"
)

// Transaction is the wire form of a ledger transaction. Data is carried as
// base64 on the wire, which encoding/json does for []byte.
type Transaction struct {
	Nonce     uint64 `json:"nonce"`
	Value     string `json:"value"`
	Receiver  string `json:"receiver"`
	Sender    string `json:"sender"`
	GasPrice  uint64 `json:"gasPrice"`
	GasLimit  uint64 `json:"gasLimit"`
	Data      []byte `json:"data,omitempty"`
	ChainID   string `json:"chainID"`
	Version   uint32 `json:"version"`
	Signature string `json:"signature,omitempty"`
}

// SigningBytes returns the canonical serialization signed by the sender:
// the transaction JSON without the signature field.
func (tx *Transaction) SigningBytes() ([]byte, error) {
	unsigned := *tx
	unsigned.Signature = ""
	b, err := json.Marshal(&unsigned)
	if err != nil {
		return nil, fmt.Errorf("marshal transaction: %w", err)
	}
	return b, nil
}

// Digest is a blake2b-256 hash over SigningBytes. It identifies a built
// transaction before the gateway assigns it a hash.
func (tx *Transaction) Digest() ([32]byte, error) {
	b, err := tx.SigningBytes()
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(b), nil
}

// Account is the subset of account state needed to submit transactions.
type Account struct {
	Address string `json:"address"`
	Nonce   uint64 `json:"nonce"`
	Balance string `json:"balance"`
}

// ContractResult is one smart contract result record of a processed transaction.
type ContractResult struct {
	Hash     string `json:"hash,omitempty"`
	Nonce    uint64 `json:"nonce"`
	Value    string `json:"value,omitempty"`
	Sender   string `json:"sender,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Data     string `json:"data"`
}

// TransactionOnNetwork is the status view of a submitted transaction.
type TransactionOnNetwork struct {
	Hash                 string           `json:"hash,omitempty"`
	Status               string           `json:"status"`
	SmartContractResults []ContractResult `json:"smartContractResults"`
}

// TokenData is one entry of an account's token holdings, keyed by the gateway
// as "{identifier}" for fungible tokens and "{identifier}-{hex nonce}" for NFTs.
type TokenData struct {
	TokenIdentifier string   `json:"tokenIdentifier"`
	Balance         string   `json:"balance"`
	Creator         string   `json:"creator,omitempty"`
	Name            string   `json:"name,omitempty"`
	Nonce           uint64   `json:"nonce,omitempty"`
	Royalties       string   `json:"royalties,omitempty"`
	Hash            string   `json:"hash,omitempty"`
	Attributes      string   `json:"attributes,omitempty"`
	URIs            []string `json:"uris,omitempty"`
}

type envelope[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error"`
	Code  string `json:"code"`
}

type accountData struct {
	Account Account `json:"account"`
}

type sendData struct {
	TxHash string `json:"txHash"`
}

type statusData struct {
	Transaction TransactionOnNetwork `json:"transaction"`
}

type tokensData struct {
	ESDTs map[string]TokenData `json:"esdts"`
}

// EnvelopeError is returned when the gateway answers with anything other than
// a well-formed envelope carrying CodeSuccessful.
type EnvelopeError struct {
	Path       string
	HTTPStatus int
	Code       string
	Message    string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("gateway %s returned %d (code=%q): %s", e.Path, e.HTTPStatus, e.Code, e.Message)
}
