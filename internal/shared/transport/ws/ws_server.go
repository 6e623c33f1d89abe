package ws

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-think/openssl"
	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"GroveWorld/internal/shared/security"
	"GroveWorld/internal/shared/utils"
	"GroveWorld/modules/kit/logx"
)

const outQueue = 1000

// WsServer is one client connection. Frames in both directions are JSON,
// AES-CBC encrypted with the key sent in the handshake, then gzipped.
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	Seq      int64
	property map[string]any
	sync.RWMutex
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(wsConn *websocket.Conn, l logx.Logger) *WsServer {
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueue),
		property: make(map[string]any),
		Seq:      0,
		done:     make(chan struct{}),
		log:      l.With(zap.String("addr", wsConn.RemoteAddr().String())),
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

func (s *WsServer) Push(name string, data any) {
	s.enqueue(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) enqueue(resp *WsMsgResp) {
	select {
	case s.outChan <- resp:
	case <-s.done:
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug("ws read closed", zap.Error(err))
			return
		}

		reqBody, ok := s.decode(data)
		if !ok {
			continue
		}

		req := WsMsgReq{Body: reqBody, Conn: s}
		// The response seq echoes the request seq.
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name, Msg: reqBody.Msg}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.router.Dispatch(&req, &resp)
		}

		s.enqueue(&resp)
	}
}

func (s *WsServer) decode(data []byte) (*ReqBody, bool) {
	secretData, err := security.UnZip(data)
	if err != nil {
		s.log.Warn("ws unzip failed", zap.Error(err))
		return nil, false
	}

	key, ok := s.GetProperty(SecretKey).(string)
	if !ok || key == "" {
		s.log.Warn("ws frame before handshake")
		return nil, false
	}

	plain, err := security.AesCBCDecrypt(secretData, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Warn("ws decrypt failed, re-handshaking", zap.Error(err))
		s.handshake()
		return nil, false
	}

	reqBody := &ReqBody{}
	if err := json.Unmarshal(plain, reqBody); err != nil {
		s.log.Warn("ws unmarshal failed", zap.Error(err))
		return nil, false
	}
	return reqBody, true
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.done:
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.done)
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.done
}

func (s *WsServer) write(msg *WsMsgResp) {
	marshal, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws marshal failed", zap.Error(err))
		return
	}

	key, ok := s.GetProperty(SecretKey).(string)
	if !ok || key == "" {
		s.log.Warn("ws write before handshake", zap.String("name", msg.Body.Name))
		return
	}

	encrypted, err := security.AesCBCEncrypt(marshal, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		s.log.Error("ws encrypt failed", zap.Error(err))
		return
	}

	zipped, err := security.Zip(encrypted)
	if err != nil {
		s.log.Error("ws zip failed", zap.Error(err))
		return
	}

	// Compressed ciphertext is binary; it must not go out as a text frame.
	s.writeFrame(zipped)
}

func (s *WsServer) writeFrame(data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		s.log.Warn("ws write failed", zap.Error(err))
	}
}

// handshake sends the connection key in clear (gzipped only), creating it
// on first use.
func (s *WsServer) handshake() {
	secretKey, _ := s.GetProperty(SecretKey).(string)
	if secretKey == "" {
		secretKey = utils.RandSeq(16)
		s.SetProperty(SecretKey, secretKey)
	}

	body := &RespBody{Name: HandshakeMsg, Msg: &Handshake{Key: secretKey}}
	data, err := json.Marshal(body)
	if err != nil {
		s.log.Error("ws handshake marshal failed", zap.Error(err))
		return
	}

	zipped, err := security.Zip(data)
	if err != nil {
		s.log.Error("ws handshake zip failed", zap.Error(err))
		return
	}
	s.writeFrame(zipped)
}
