// Package contract provides ABI bindings for the AgroChain insurance
// suite. Each deployed contract gets a typed binding built on top of a
// generic bound handle that knows which operations the deployed ABI
// actually exposes.
package contract

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotSupported marks an operation the deployed ABI does not
	// expose. Callers treat it as a degraded mode, not a failure.
	ErrNotSupported = errors.New("operation not supported by deployed contract")

	ErrEmptyResult = errors.New("empty call result")
)

// CallBackend executes read-only contract calls.
type CallBackend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// BoundContract couples an address, a parsed ABI and a call backend.
// The capability set is computed once at construction; deployments vary
// and an absent operation is normal, never an error.
type BoundContract struct {
	name    string
	address common.Address
	abi     abi.ABI
	backend CallBackend

	methods []string
	events  []string
}

// Bind parses abiJSON and builds a handle for the contract at address.
func Bind(name string, address common.Address, abiJSON string, backend CallBackend) (*BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, err
	}

	methods := make([]string, 0, len(parsed.Methods))
	for m := range parsed.Methods {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	events := make([]string, 0, len(parsed.Events))
	for e := range parsed.Events {
		events = append(events, e)
	}
	sort.Strings(events)

	return &BoundContract{
		name:    name,
		address: address,
		abi:     parsed,
		backend: backend,
		methods: methods,
		events:  events,
	}, nil
}

// Name returns the binding name used in logs and the status endpoint.
func (c *BoundContract) Name() string {
	return c.name
}

// Address returns the contract address.
func (c *BoundContract) Address() common.Address {
	return c.address
}

// ABI returns the parsed ABI.
func (c *BoundContract) ABI() abi.ABI {
	return c.abi
}

// Has reports whether the deployed ABI exposes method.
func (c *BoundContract) Has(method string) bool {
	_, ok := c.abi.Methods[method]
	return ok
}

// HasEvent reports whether the deployed ABI declares event.
func (c *BoundContract) HasEvent(event string) bool {
	_, ok := c.abi.Events[event]
	return ok
}

// Operations returns the sorted method names. The slice is shared;
// callers must not mutate it.
func (c *BoundContract) Operations() []string {
	return c.methods
}

// Events returns the sorted event names.
func (c *BoundContract) Events() []string {
	return c.events
}

// EventTopic returns the topic hash for event, or the zero hash when
// the ABI does not declare it.
func (c *BoundContract) EventTopic(event string) common.Hash {
	ev, ok := c.abi.Events[event]
	if !ok {
		return common.Hash{}
	}
	return ev.ID
}

// Pack encodes a method call. Unknown methods return ErrNotSupported.
func (c *BoundContract) Pack(method string, args ...interface{}) ([]byte, error) {
	if !c.Has(method) {
		return nil, ErrNotSupported
	}
	return c.abi.Pack(method, args...)
}

// Call executes a read-only method and unpacks the result into out.
// Pass a nil out to discard the return value.
func (c *BoundContract) Call(ctx context.Context, out interface{}, method string, args ...interface{}) error {
	data, err := c.Pack(method, args...)
	if err != nil {
		return err
	}

	msg := ethereum.CallMsg{
		To:   &c.address,
		Data: data,
	}

	result, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(result) == 0 {
		return ErrEmptyResult
	}

	return c.abi.UnpackIntoInterface(out, method, result)
}
