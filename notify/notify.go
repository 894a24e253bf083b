// Package notify forwards display events to an external frontend over a Unix socket.
package notify

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/photobooth-go/tool"
	"github.com/moyoez/photobooth-go/types"
)

// MaxPayloadSize is the largest payload accepted by the frontend.
const MaxPayloadSize = 32 * 1024 // 32KB

// MaxListItems bounds the image names carried by one list event.
const MaxListItems = 50

var (
	// DefaultUnixSocketPath is used when no socket is configured.
	DefaultUnixSocketPath = "/tmp/photobooth-notify.sock"
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second
)

// SendNotification writes one length-prefixed JSON payload to the socket and reads the
// frontend's reply.
func SendNotification(notification *types.Notification, socketPath string) error {
	if socketPath == "" {
		socketPath = DefaultUnixSocketPath
	}
	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the frontend running?)", socketPath)
	}

	payload := []byte("{}")
	if notification != nil {
		var err error
		payload, err = sonic.Marshal(truncate(notification))
		if err != nil {
			return fmt.Errorf("failed to serialize notification: %w", err)
		}
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), MaxPayloadSize)
	}

	conn, err := net.DialTimeout("unix", socketPath, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %w", socketPath, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set deadline: %v", err)
	}

	// 4 bytes little-endian length, then the payload
	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[4:], payload)
	if _, err := conn.Write(frame); err != nil {
		return fmt.Errorf("failed to write to Unix socket: %w", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %w", err)
	}
	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("frontend returned error: %s", errMsg)
		}
	}
	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s", notification.Type)
	}
	return nil
}

// truncate keeps list events under the payload limit.
func truncate(n *types.Notification) *types.Notification {
	items, ok := n.Data["items"].([]string)
	if !ok || len(items) <= MaxListItems {
		return n
	}
	out := *n
	out.Data = make(map[string]any, len(n.Data)+1)
	for k, v := range n.Data {
		out.Data[k] = v
	}
	out.Data["items"] = items[len(items)-MaxListItems:]
	out.Data["totalItems"] = len(items)
	return &out
}

// Forwarder sends display events to a socket in order without blocking the caller.
// Events are dropped while the queue is full.
type Forwarder struct {
	socketPath string
	queue      chan *types.Notification
}

// NewForwarder creates a forwarder with room for queueSize pending events.
func NewForwarder(socketPath string, queueSize int) *Forwarder {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Forwarder{
		socketPath: socketPath,
		queue:      make(chan *types.Notification, queueSize),
	}
}

// Broadcast queues n.
func (f *Forwarder) Broadcast(n *types.Notification) {
	select {
	case f.queue <- n:
	default:
		tool.DefaultLogger.Warnf("[UnixSocket] Queue full, dropping %s", n.Type)
	}
}

// Run delivers queued events until ctx is done.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-f.queue:
			if err := SendNotification(n, f.socketPath); err != nil {
				tool.DefaultLogger.Debugf("[UnixSocket] %v", err)
			}
		}
	}
}
