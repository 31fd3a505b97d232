package solana

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

// rpcHandler answers one JSON-RPC method. Returning a non-nil *RPCError
// sends an error object instead of a result.
type rpcHandler func(params []json.RawMessage) (interface{}, *RPCError)

type fakeRPC struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]rpcHandler
	calls    map[string]int
}

func newFakeRPC(t *testing.T, opts ...ClientOption) (*fakeRPC, *RPCClient) {
	t.Helper()
	f := &fakeRPC{t: t, handlers: map[string]rpcHandler{}, calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, NewRPCClient(srv.URL, opts...)
}

func (f *fakeRPC) on(method string, h rpcHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeRPC) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRPC) serve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     uint64            `json:"id"`
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.calls[req.Method]++
	h, ok := f.handlers[req.Method]
	f.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if !ok {
		resp["error"] = RPCError{Code: -32601, Message: "Method not found"}
	} else if result, rpcErr := h(req.Params); rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func contextValue(v interface{}) map[string]interface{} {
	return map[string]interface{}{"context": map[string]interface{}{"slot": 1}, "value": v}
}

func newKey(t *testing.T) solanago.PrivateKey {
	t.Helper()
	k, err := solanago.NewRandomPrivateKey()
	require.NoError(t, err)
	return k
}

// testOptions returns options for a fresh mint under a random program id.
func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Mint:           newKey(t).PublicKey().String(),
		TokenProgramID: newKey(t).PublicKey().String(),
		Decimals:       9,
		Commitment:     "confirmed",
	}
}

const testBlockhash = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"

func blockhashHandler(params []json.RawMessage) (interface{}, *RPCError) {
	return contextValue(map[string]interface{}{
		"blockhash":            testBlockhash,
		"lastValidBlockHeight": 100,
	}), nil
}
