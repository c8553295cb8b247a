package udp

import (
	"context"
	"log/slog"
	"net"
	"path/filepath"

	"chat-hub/storage"
)

// FileAnnouncer is notified once an upload has been fully persisted.
// The announcement must not block the receive loop beyond the router's
// bounded delivery budget.
type FileAnnouncer interface {
	AnnounceFile(sender, filename string, size int64, mimeType string)
}

// UploadReceiver ingests file uploads: one header datagram, then raw body
// datagrams until the declared size is reached.
//
// The loop is single-threaded: exactly one upload is serviced end-to-end
// before the next header is read from the socket buffer. Two clients
// uploading at the same time interleave only through OS buffering, which
// is a known scaling limit of the protocol.
type UploadReceiver struct {
	log       *slog.Logger
	store     *storage.FileStore
	announcer FileAnnouncer
	addr      string
	conn      net.PacketConn
}

func NewUploadReceiver(log *slog.Logger, store *storage.FileStore, announcer FileAnnouncer, addr string) *UploadReceiver {
	return &UploadReceiver{log: log, store: store, announcer: announcer, addr: addr}
}

// Listen binds the socket. Run calls it implicitly; tests call it first
// to learn the chosen port.
func (r *UploadReceiver) Listen() (net.Addr, error) {
	if r.conn == nil {
		conn, err := net.ListenPacket("udp", r.addr)
		if err != nil {
			return nil, err
		}
		r.conn = conn
	}
	return r.conn.LocalAddr(), nil
}

func (r *UploadReceiver) Run(ctx context.Context) error {
	if _, err := r.Listen(); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		r.conn.Close()
	}()

	r.log.Info("upload receiver listening", "addr", r.conn.LocalAddr().String())

	buf := make([]byte, headerBufSize)
	for {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		header, err := DecodeUploadHeader(buf[:n])
		if err != nil {
			// Malformed frames are dropped, never fatal.
			r.log.Warn("dropping malformed upload header", "error", err)
			continue
		}

		r.log.Info("receiving file",
			"filename", header.Filename, "size", header.Size, "sender", header.Sender)

		if err := r.receiveBody(header); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.log.Error("upload aborted", "filename", header.Filename, "error", err)
			continue
		}

		name := filepath.Base(header.Filename)
		mimeType := r.store.DetectMime(name)
		r.log.Info("file received", "filename", name, "size", header.Size, "mime", mimeType)
		r.announcer.AnnounceFile(header.Sender, name, header.Size, mimeType)
	}
}

// receiveBody reassembles body datagrams into the store until the
// declared size is reached. Bytes past the declared size are truncated
// and empty datagrams are ignored, not counted.
func (r *UploadReceiver) receiveBody(header UploadHeader) error {
	w, err := r.store.Create(header.Filename)
	if err != nil {
		return err
	}
	defer w.Close()

	var received int64
	buf := make([]byte, chunkSize)
	for received < header.Size {
		n, _, err := r.conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		chunk := int64(n)
		if received+chunk > header.Size {
			chunk = header.Size - received
		}
		if _, err := w.Write(buf[:chunk]); err != nil {
			return err
		}
		received += chunk
	}
	return nil
}
