// Transport abstraction for monitoring frames: the leaf collaborator the
// serializer writes to, grounded on the teacher's StdoutMetricsQueue
// queued-buffer pattern but simplified to a synchronous io.Writer since the
// serializer itself is synchronous and blocking, with no error path of its
// own.

package artx_internal

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/docker/go-units"
)

// Transport is where serialized monitor frames go. StdoutTransport is the
// only concrete implementation here; real deployments would point this at
// the serial/SPI/TWI drivers a real deployment would use instead.
type Transport interface {
	Write(frame []byte) error
	Close() error
}

// TransportConfig sizes the transport's internal scratch buffer.
type TransportConfig struct {
	// ScratchBufferSize accepts human-readable sizes ("4KiB", "1MB") via
	// docker/go-units, matching the teacher's batch_target_size handling.
	ScratchBufferSize string `yaml:"scratch_buffer_size"`
}

func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{ScratchBufferSize: "4KiB"}
}

// StdoutTransport writes monitor frames to stdout, framed with a banner on
// first use, matching the teacher's "first time use flag" idiom.
type StdoutTransport struct {
	mu       sync.Mutex
	buf      *bytes.Buffer
	firstUse bool
}

func NewStdoutTransport(cfg *TransportConfig) (*StdoutTransport, error) {
	if cfg == nil {
		cfg = DefaultTransportConfig()
	}
	size, err := units.RAMInBytes(cfg.ScratchBufferSize)
	if err != nil {
		return nil, fmt.Errorf("NewStdoutTransport: invalid scratch_buffer_size %q: %w", cfg.ScratchBufferSize, err)
	}
	return &StdoutTransport{
		buf:      bytes.NewBuffer(make([]byte, 0, size)),
		firstUse: true,
	}, nil
}

func (t *StdoutTransport) Write(frame []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.firstUse {
		os.Stdout.WriteString("\n# ARTX monitor frames will be displayed to stdout\n\n")
		t.firstUse = false
	}
	t.buf.Reset()
	t.buf.Write(frame)
	_, err := os.Stdout.Write(t.buf.Bytes())
	return err
}

func (t *StdoutTransport) Close() error { return nil }
