package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-think/openssl"
	"github.com/gorilla/websocket"

	"GroveWorld/internal/shared/security"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/logx"
)

type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
	key  string
}

func dial(t *testing.T, r *Router) *wsClient {
	t.Helper()
	srv := httptest.NewServer(NewServer(r, logx.Nop()))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	c := &wsClient{t: t, conn: conn}
	var hs struct {
		Name string    `json:"name"`
		Msg  Handshake `json:"msg"`
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read handshake: %v", err)
	}
	plain, err := security.UnZip(data)
	if err != nil {
		t.Fatalf("unzip handshake: %v", err)
	}
	if err := json.Unmarshal(plain, &hs); err != nil || hs.Name != HandshakeMsg || len(hs.Msg.Key) != 16 {
		t.Fatalf("handshake = %s (%v)", plain, err)
	}
	c.key = hs.Msg.Key
	return c
}

func (c *wsClient) call(body ReqBody) RespBody {
	c.t.Helper()
	raw, _ := json.Marshal(body)
	enc, err := security.AesCBCEncrypt(raw, []byte(c.key), []byte(c.key), openssl.ZEROS_PADDING)
	if err != nil {
		c.t.Fatalf("encrypt: %v", err)
	}
	zipped, _ := security.Zip(enc)
	if err := c.conn.WriteMessage(websocket.BinaryMessage, zipped); err != nil {
		c.t.Fatalf("write: %v", err)
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	unzipped, err := security.UnZip(data)
	if err != nil {
		c.t.Fatalf("unzip: %v", err)
	}
	plain, err := security.AesCBCDecrypt(unzipped, []byte(c.key), []byte(c.key), openssl.ZEROS_PADDING)
	if err != nil {
		c.t.Fatalf("decrypt: %v", err)
	}
	var resp RespBody
	if err := json.Unmarshal(plain, &resp); err != nil {
		c.t.Fatalf("unmarshal %s: %v", plain, err)
	}
	return resp
}

type echoReq struct {
	Text  string `mapstructure:"text"`
	Times int    `mapstructure:"times"`
}

func TestWsServer_RoutesEncryptedFrames(t *testing.T) {
	r := NewRouter(logx.Nop())
	r.Group("test").Handle("echo", func(_ context.Context, req *WsMsgReq, resp *WsMsgResp) {
		var in echoReq
		if err := Bind(req, &in); err != nil {
			resp.Body.Code = transport.InvalidParam
			return
		}
		resp.Body.Code = transport.OK
		resp.Body.Msg = strings.Repeat(in.Text, in.Times)
	})
	c := dial(t, r)

	resp := c.call(ReqBody{Seq: 7, Name: "test.echo", Msg: map[string]any{"text": "ab", "times": "2"}})
	if resp.Seq != 7 || resp.Code != transport.OK || resp.Msg != "abab" {
		t.Fatalf("resp = %+v", resp)
	}

	resp = c.call(ReqBody{Seq: 8, Name: "test.missing"})
	if resp.Code != transport.InvalidParam {
		t.Fatalf("unknown route code = %d", resp.Code)
	}
}

func TestWsServer_Heartbeat(t *testing.T) {
	c := dial(t, NewRouter(logx.Nop()))
	resp := c.call(ReqBody{Seq: 1, Name: HeartbeatMsg, Msg: map[string]any{"ctime": 42}})
	hb, ok := resp.Msg.(map[string]any)
	if !ok || hb["ctime"] != float64(42) || hb["stime"] == float64(0) {
		t.Fatalf("heartbeat = %+v", resp.Msg)
	}
}

func TestParseRouteName(t *testing.T) {
	for name, ok := range map[string]bool{"grove.plant": true, "grove": false, ".plant": false, "a.b.c": false} {
		if _, _, got := parseRouteName(name); got != ok {
			t.Errorf("parseRouteName(%q) ok = %v, want %v", name, got, ok)
		}
	}
}
