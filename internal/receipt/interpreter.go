// Package receipt derives facts from mined transaction receipts. The
// contracts do not return values through transactions, so the ID of a
// newly created record has to be recovered from logs or, failing that,
// from ledger state.
package receipt

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// Extraction sources, in the order the strategies run.
const (
	SourceEventTopic = "event_topic"
	SourceLogData    = "log_data"
	SourceStateQuery = "state_query"
	SourceDefault    = "default"
)

// CreatedID is the result of recovering a record ID from a receipt.
// LowConfidence marks the zero fallback; callers surface it as a
// warning, never as an error.
type CreatedID struct {
	ID            *big.Int `json:"id"`
	Source        string   `json:"source"`
	LowConfidence bool     `json:"lowConfidence"`
}

// DecodedEvent is one log decoded against a known event definition.
type DecodedEvent struct {
	Name   string                 `json:"name"`
	Fields map[string]interface{} `json:"fields"`
	Raw    types.Log              `json:"-"`
}

// ExtractEvent decodes every receipt log matching eventName on c.
// Unknown events and undecodable logs yield nil; log decoding is a
// best-effort read, never a failure.
func ExtractEvent(c *contract.BoundContract, eventName string, rcpt *types.Receipt) []DecodedEvent {
	if rcpt == nil || !c.HasEvent(eventName) {
		return nil
	}

	ev := c.ABI().Events[eventName]

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	var out []DecodedEvent
	for _, lg := range rcpt.Logs {
		if lg == nil || len(lg.Topics) == 0 || lg.Topics[0] != ev.ID {
			continue
		}
		if lg.Address != c.Address() {
			continue
		}

		fields := make(map[string]interface{})
		if len(lg.Data) > 0 {
			if err := c.ABI().UnpackIntoMap(fields, eventName, lg.Data); err != nil {
				continue
			}
		}
		if len(indexed) > 0 && len(lg.Topics) > 1 {
			if err := abi.ParseTopicsIntoMap(fields, indexed, lg.Topics[1:]); err != nil {
				continue
			}
		}

		out = append(out, DecodedEvent{Name: eventName, Fields: fields, Raw: *lg})
	}
	return out
}

// Interpreter recovers created-record IDs from receipts, falling back
// to ledger state queries through the insurance binding.
type Interpreter struct {
	insurance *contract.Insurance
}

// NewInterpreter builds an interpreter over the insurance binding.
func NewInterpreter(insurance *contract.Insurance) *Interpreter {
	return &Interpreter{insurance: insurance}
}

// ExtractCreatedID recovers the ID of the record a transaction created.
// Strategies run in a fixed order: an indexed event topic, a 32-byte
// log data prefix, then a ledger state query scoped to owner. The state
// query reads insurance lists, so it only runs for receipts whose
// emitter set includes the insurance contract; other domains fall
// through. When all fail the result is zero with LowConfidence set. The
// receipt is never mutated; re-running on the same receipt gives the
// same answer.
func (i *Interpreter) ExtractCreatedID(ctx context.Context, rcpt *types.Receipt, emitters []common.Address, owner common.Address) CreatedID {
	if id, ok := idFromTopics(rcpt, emitters); ok {
		return CreatedID{ID: id, Source: SourceEventTopic}
	}

	if id, ok := idFromData(rcpt, emitters); ok {
		return CreatedID{ID: id, Source: SourceLogData}
	}

	if i.insuranceScoped(emitters) {
		if id, ok := i.idFromState(ctx, owner); ok {
			return CreatedID{ID: id, Source: SourceStateQuery}
		}
	}

	logger.Warn("could not extract created ID from receipt",
		zap.String("tx_hash", rcpt.TxHash.Hex()),
		zap.Int("logs", len(rcpt.Logs)),
	)
	return CreatedID{ID: big.NewInt(0), Source: SourceDefault, LowConfidence: true}
}

// insuranceScoped reports whether the receipt under interpretation
// belongs to the insurance domain. An empty emitter set accepts every
// domain, matching emittedBy.
func (i *Interpreter) insuranceScoped(emitters []common.Address) bool {
	if i.insurance == nil {
		return false
	}
	if len(emitters) == 0 {
		return true
	}
	for _, addr := range emitters {
		if addr == i.insurance.Address() {
			return true
		}
	}
	return false
}

// emittedBy reports whether lg came from one of the candidate
// contracts. An empty candidate set accepts every emitter.
func emittedBy(lg *types.Log, emitters []common.Address) bool {
	if len(emitters) == 0 {
		return true
	}
	for _, addr := range emitters {
		if lg.Address == addr {
			return true
		}
	}
	return false
}

// idFromTopics finds the first log with at least four topics and reads
// the last topic as an unsigned integer. Mint-style events index the
// token ID as the final topic.
func idFromTopics(rcpt *types.Receipt, emitters []common.Address) (*big.Int, bool) {
	if rcpt == nil {
		return nil, false
	}
	for _, lg := range rcpt.Logs {
		if lg == nil || !emittedBy(lg, emitters) {
			continue
		}
		if len(lg.Topics) >= 4 {
			return new(big.Int).SetBytes(lg.Topics[len(lg.Topics)-1].Bytes()), true
		}
	}
	return nil, false
}

// idFromData finds the first log carrying at least 32 bytes of data and
// reads the first word as an unsigned integer.
func idFromData(rcpt *types.Receipt, emitters []common.Address) (*big.Int, bool) {
	if rcpt == nil {
		return nil, false
	}
	for _, lg := range rcpt.Logs {
		if lg == nil || !emittedBy(lg, emitters) {
			continue
		}
		if len(lg.Data) >= 32 {
			return new(big.Int).SetBytes(lg.Data[:32]), true
		}
	}
	return nil, false
}

// idFromState asks the ledger for the newest policy ID, using whichever
// list query the deployed contract exposes. Correct under the process
// serialization guarantee: no other admin transaction lands between the
// creation and this read.
func (i *Interpreter) idFromState(ctx context.Context, owner common.Address) (*big.Int, bool) {
	if i.insurance == nil {
		return nil, false
	}

	var (
		ids []*big.Int
		err error
	)
	switch i.insurance.Variant() {
	case contract.QueryVariantActiveList:
		ids, err = i.insurance.ActivePolicies(ctx)
	case contract.QueryVariantPerOwner:
		ids, err = i.insurance.UserPolicies(ctx, owner)
	default:
		return nil, false
	}

	if err != nil || len(ids) == 0 {
		return nil, false
	}
	return ids[len(ids)-1], true
}
