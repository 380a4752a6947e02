package display

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultMirrorSubject is the NATS subject frames are published on
const DefaultMirrorSubject = "babelbox.display"

// FrameEvent is the JSON payload published for every frame
type FrameEvent struct {
	Lines     []string `json:"lines"`
	Timestamp int64    `json:"timestamp"`
}

// Mirror publishes every frame to NATS so a remote dashboard can follow the screen
type Mirror struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

// ConnectMirror connects to the NATS server at url
func ConnectMirror(url, subject string, logger *zap.Logger) (*Mirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if subject == "" {
		subject = DefaultMirrorSubject
	}

	opts := []nats.Option{
		nats.Name("babelbox"),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Mirroring display to NATS", zap.String("url", conn.ConnectedUrl()), zap.String("subject", subject))
	return &Mirror{conn: conn, subject: subject, logger: logger}, nil
}

// Show publishes the frame. Publishing problems are logged, never returned,
// because the mirror must not disturb the appliance.
func (m *Mirror) Show(frame Frame) error {
	data, err := encodeFrame(frame, time.Now())
	if err != nil {
		m.logger.Warn("Failed to encode frame", zap.Error(err))
		return nil
	}
	if err := m.conn.Publish(m.subject, data); err != nil {
		m.logger.Warn("Failed to publish frame", zap.String("subject", m.subject), zap.Error(err))
	}
	return nil
}

// Close flushes pending frames and closes the connection
func (m *Mirror) Close() error {
	return m.conn.Drain()
}

func encodeFrame(frame Frame, at time.Time) ([]byte, error) {
	return json.Marshal(FrameEvent{
		Lines:     frame[:],
		Timestamp: at.UnixMilli(),
	})
}
