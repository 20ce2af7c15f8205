package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fare/internal/domain"
	"fare/internal/service"
)

const streamWriteTimeout = 5 * time.Second

// StreamMessage is one inbound estimate request on the stream.
type StreamMessage struct {
	RideFields
	RequestID string `json:"request_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// StreamReply is written back for the latest request of a connection.
type StreamReply struct {
	RequestID string            `json:"request_id"`
	Quote     *domain.FareQuote `json:"quote,omitempty"`
	Error     string            `json:"error,omitempty"`
	Field     string            `json:"field,omitempty"`
}

// StreamHandler serves estimates over a WebSocket. Each connection is its
// own session: a new message supersedes any estimate still in flight, and
// only the latest one is answered.
type StreamHandler struct {
	sessions *service.SessionEstimator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(sessions *service.SessionEstimator, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream handles GET /v1/fares/stream
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	s := &streamConn{
		conn:      conn,
		sessionID: uuid.NewString(),
		sessions:  h.sessions,
		logger:    h.logger,
	}
	s.serve(c.Request.Context())
}

type streamConn struct {
	conn      *websocket.Conn
	sessionID string
	sessions  *service.SessionEstimator
	logger    *zap.Logger

	// writeMu guards the socket writes and latest.
	writeMu sync.Mutex
	// latest numbers the most recent inbound message; replies for older
	// messages are never written.
	latest uint64
	wg     sync.WaitGroup
}

func (s *streamConn) serve(parent context.Context) {
	ctx, cancelAll := context.WithCancel(parent)
	cancelPrev := context.CancelFunc(func() {})

	defer func() {
		cancelPrev()
		cancelAll()
		s.wg.Wait()
		if err := s.sessions.Close(context.Background(), s.sessionID); err != nil {
			s.logger.Warn("failed to forget stream session", zap.Error(err))
		}
		_ = s.conn.Close()
	}()

	s.logger.Debug("stream opened", zap.String("session_id", s.sessionID))

	for {
		var msg StreamMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				s.logger.Debug("stream read ended", zap.Error(err))
			}
			return
		}

		seq := s.advance()

		mode, err := service.ParseMode(msg.Mode, "")
		if err != nil {
			cancelPrev()
			cancelPrev = func() {}
			s.reply(seq, replyFor(msg.RequestID, nil, err))
			continue
		}

		attemptCtx, cancel := context.WithCancel(ctx)
		outc, err := s.sessions.Submit(attemptCtx, s.sessionID, msg.toRaw(), mode)
		// the new attempt is registered, so the previous one resolves as superseded
		cancelPrev()
		cancelPrev = cancel
		if err != nil {
			s.reply(seq, replyFor(msg.RequestID, nil, err))
			continue
		}

		s.wg.Add(1)
		go func(seq uint64, requestID string) {
			defer s.wg.Done()

			outcome := <-outc
			if errors.Is(outcome.Err, service.ErrSuperseded) {
				return
			}
			s.reply(seq, replyFor(requestID, outcome.Quote, outcome.Err))
		}(seq, msg.RequestID)
	}
}

// advance marks a new inbound message as the latest and returns its number.
func (s *streamConn) advance() uint64 {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.latest++
	return s.latest
}

// reply writes r unless a newer message arrived after message seq. The
// check and the write share one lock.
func (s *streamConn) reply(seq uint64, r StreamReply) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq != s.latest {
		s.logger.Debug("dropping stale stream reply",
			zap.String("session_id", s.sessionID),
			zap.String("request_id", r.RequestID),
		)
		return
	}

	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := s.conn.WriteJSON(r); err != nil {
		s.logger.Debug("stream write failed", zap.Error(err))
	}
}

func replyFor(requestID string, quote *domain.FareQuote, err error) StreamReply {
	if err != nil {
		resp := newErrorResponse(err)
		return StreamReply{RequestID: requestID, Error: resp.Error, Field: resp.Field}
	}
	return StreamReply{RequestID: requestID, Quote: quote}
}
