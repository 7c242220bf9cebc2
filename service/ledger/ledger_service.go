package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"interest/config"
	"interest/core"
	"interest/pkg/layout"
	"interest/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

const defaultConfirmTimeout = 60 * time.Second

// Ledger json-rpc gateway to the external program. The node never owns
// authoritative state here: reads return whatever snapshot the rpc node
// holds, writes are signed instructions whose outcome only the program
// decides.
type Ledger struct {
	endpoint       string
	wallet         core.IWallet
	confirmTimeout time.Duration
}

// New new ledger gateway
func New(cfg *config.Config, wallet core.IWallet) core.ILedger {
	timeout := defaultConfirmTimeout
	if cfg.Ledger.ConfirmTimeout > 0 {
		timeout = time.Duration(cfg.Ledger.ConfirmTimeout) * time.Second
	}

	return &Ledger{
		endpoint:       cfg.Ledger.Endpoint,
		wallet:         wallet,
		confirmTimeout: timeout,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Logs []string `json:"logs"`
	} `json:"data"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (l *Ledger) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	body := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	resp, err := resthttp.Request(ctx).SetBody(body).Post(l.endpoint)
	if err != nil {
		return nil, err
	}

	var r rpcResponse
	if err := resthttp.ParseResponse(resp, &r); err != nil {
		return nil, err
	}

	if r.Error != nil {
		// rejections carry the program's diagnostic log lines; keep
		// them verbatim, they are the only debugging surface
		return nil, &core.LedgerRejection{
			Message: r.Error.Message,
			Logs:    r.Error.Data.Logs,
		}
	}

	return r.Result, nil
}

type rawAccountView struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data []string `json:"data"`
	} `json:"account"`
}

func decodeAccountData(data []string) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("ledger: empty account data")
	}

	return base64.StdEncoding.DecodeString(data[0])
}

// GetProgramAccounts program owned accounts filtered to exactly
// dataSize bytes. The size filter is a coarse pre-filter; the decoders
// downstream are the real type check.
func (l *Ledger) GetProgramAccounts(ctx context.Context, programID string, dataSize int) ([]*core.RawAccount, error) {
	result, err := l.call(ctx, "getProgramAccounts", programID, map[string]interface{}{
		"encoding": "base64",
		"filters": []interface{}{
			map[string]interface{}{"dataSize": dataSize},
		},
	})
	if err != nil {
		return nil, err
	}

	var views []rawAccountView
	if err := json.Unmarshal(result, &views); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	accounts := make([]*core.RawAccount, 0, len(views))
	for _, view := range views {
		data, err := decodeAccountData(view.Account.Data)
		if err != nil {
			log.WithField("account", view.Pubkey).Errorln("decode account data:", err)
			continue
		}

		accounts = append(accounts, &core.RawAccount{
			Address: view.Pubkey,
			Data:    data,
		})
	}

	return accounts, nil
}

// GetAccount one account's raw bytes; ok false when it does not exist
func (l *Ledger) GetAccount(ctx context.Context, address string) (*core.RawAccount, bool, error) {
	result, err := l.call(ctx, "getAccountInfo", address, map[string]interface{}{
		"encoding": "base64",
	})
	if err != nil {
		return nil, false, err
	}

	var view struct {
		Value *struct {
			Data []string `json:"data"`
		} `json:"value"`
	}
	if err := json.Unmarshal(result, &view); err != nil {
		return nil, false, err
	}

	if view.Value == nil {
		return nil, false, nil
	}

	data, err := decodeAccountData(view.Value.Data)
	if err != nil {
		return nil, false, err
	}

	return &core.RawAccount{Address: address, Data: data}, true, nil
}

// serializeInstruction wire form of a signed submission: program key,
// account count, then each meta as key + signer flag + writable flag,
// then the data length and data. This is the byte string the wallet
// signs.
func serializeInstruction(ins *core.Instruction) ([]byte, error) {
	program, err := layout.PubKeyFromString(ins.Program)
	if err != nil {
		return nil, err
	}

	buf, err := layout.Append(nil, program, uint8(len(ins.Accounts)))
	if err != nil {
		return nil, err
	}

	for _, meta := range ins.Accounts {
		key, err := layout.PubKeyFromString(meta.Address)
		if err != nil {
			return nil, err
		}

		buf, err = layout.Append(buf, key, boolByte(meta.Signer), boolByte(meta.Writable))
		if err != nil {
			return nil, err
		}
	}

	buf, err = layout.Append(buf, uint32(len(ins.Data)))
	if err != nil {
		return nil, err
	}

	return append(buf, ins.Data...), nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Submit sign and send an instruction. There is no cancellation once
// the request leaves: a context timeout after the post may mean the
// instruction still lands.
func (l *Ledger) Submit(ctx context.Context, ins *core.Instruction) (string, error) {
	payload, err := serializeInstruction(ins)
	if err != nil {
		return "", err
	}

	sig, err := l.wallet.Sign(payload)
	if err != nil {
		return "", err
	}

	result, err := l.call(ctx, "submitInstruction", map[string]interface{}{
		"payload":   base64.StdEncoding.EncodeToString(payload),
		"signature": base64.StdEncoding.EncodeToString(sig),
		"signer":    l.wallet.Address(),
		"trace_id":  ins.TraceID,
	})
	if err != nil {
		return "", err
	}

	var signature string
	if err := json.Unmarshal(result, &signature); err != nil {
		return "", err
	}

	logger.FromContext(ctx).WithField("signature", signature).Debugln("instruction submitted")
	return signature, nil
}

// WaitConfirmed poll the signature until it confirms or the
// confirmation budget runs out. Timing out does not mean failure, only
// that the node stopped waiting.
func (l *Ledger) WaitConfirmed(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, l.confirmTimeout)
	defer cancel()

	for {
		result, err := l.call(ctx, "getSignatureStatus", signature)
		if err != nil {
			return err
		}

		var status struct {
			Confirmed bool   `json:"confirmed"`
			Err       string `json:"err"`
		}
		if err := json.Unmarshal(result, &status); err != nil {
			return err
		}

		if status.Err != "" {
			return &core.LedgerRejection{Message: status.Err}
		}

		if status.Confirmed {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("ledger: confirmation timed out for %s", signature)
		case <-time.After(time.Second):
		}
	}
}
