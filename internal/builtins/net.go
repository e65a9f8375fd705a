package builtins

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/exin-lang/exin/internal/errors"
	"github.com/exin-lang/exin/internal/interp"
	"github.com/exin-lang/exin/internal/value"
)

// wsConns maps an opaque Int handle to its dialed connection. EXIN has no
// user-defined or opaque value kind, so a handle is a plain integer the
// same way internal/vm/database_bindings.go represents connection ids —
// here indexing a process-wide table rather than threading a *websocket.Conn
// through the value system.
var (
	wsMu    sync.Mutex
	wsConns = map[int64]*websocket.Conn{}
	wsNext  int64
)

// RegisterNet wires the net_ws_* family, adapted from
// internal/network/websocket.go's client-side connect/send/receive/close
// down to the single blocking call each of those four functions needs
// (the goroutine-fed receive channel and server side have no use here:
// EXIN has no concurrency).
func RegisterNet(it *interp.Interp) {
	it.Register("net_ws_dial", wsDial)
	it.Register("net_ws_send", wsSend)
	it.Register("net_ws_recv", wsRecv)
	it.Register("net_ws_close", wsClose)
}

func wsDial(it *interp.Interp, args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, it.Raise(errors.TypeError, "net_ws_dial() expects (url)")
	}
	url, ok := args[0].(*value.Str)
	if !ok {
		return nil, it.Raise(errors.TypeError, "net_ws_dial() expects a string url")
	}

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	conn, _, err := dialer.Dial(url.Val, nil)
	if err != nil {
		return nil, errors.Wrap(err, "net_ws_dial: %s", url.Val)
	}

	wsMu.Lock()
	wsNext++
	handle := wsNext
	wsConns[handle] = conn
	wsMu.Unlock()
	return value.NewInt(handle), nil
}

func lookupWS(it *interp.Interp, args []value.Value) (*websocket.Conn, error) {
	if len(args) == 0 || !value.IsNumber(args[0]) {
		return nil, it.Raise(errors.TypeError, "expected a websocket handle")
	}
	handle := value.AsInt(args[0])
	wsMu.Lock()
	conn, ok := wsConns[handle]
	wsMu.Unlock()
	if !ok {
		return nil, it.Raise(errors.ValueError, "no open websocket connection %d", handle)
	}
	return conn, nil
}

func wsSend(it *interp.Interp, args []value.Value) (value.Value, error) {
	conn, err := lookupWS(it, args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, it.Raise(errors.TypeError, "net_ws_send() expects (handle, text)")
	}
	text, ok := args[1].(*value.Str)
	if !ok {
		return nil, it.Raise(errors.TypeError, "net_ws_send() expects a string message")
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text.Val)); err != nil {
		return nil, errors.Wrap(err, "net_ws_send")
	}
	return value.NewInt(1), nil
}

func wsRecv(it *interp.Interp, args []value.Value) (value.Value, error) {
	conn, err := lookupWS(it, args)
	if err != nil {
		return nil, err
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, errors.Wrap(err, "net_ws_recv")
	}
	return value.NewStr(string(msg)), nil
}

func wsClose(it *interp.Interp, args []value.Value) (value.Value, error) {
	conn, err := lookupWS(it, args)
	if err != nil {
		return nil, err
	}
	handle := value.AsInt(args[0])

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	closeErr := conn.Close()

	wsMu.Lock()
	delete(wsConns, handle)
	wsMu.Unlock()

	if closeErr != nil {
		return nil, errors.Wrap(closeErr, "net_ws_close")
	}
	return value.NewInt(1), nil
}
