package udp

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"chat-hub/storage"
)

// sendPacing is the delay between body datagrams. UDP has no flow
// control; without a pause a fast sender overruns the receiver's socket
// buffer on anything bigger than a few hundred kilobytes.
const sendPacing = time.Millisecond

// DownloadResponder serves stored files on request. One request datagram
// carries the bare filename; the reply is either the FILE_NOT_FOUND
// sentinel or a download header followed by body datagrams. No session
// state survives past the single exchange.
type DownloadResponder struct {
	log   *slog.Logger
	store *storage.FileStore
	addr  string
	conn  net.PacketConn
}

func NewDownloadResponder(log *slog.Logger, store *storage.FileStore, addr string) *DownloadResponder {
	return &DownloadResponder{log: log, store: store, addr: addr}
}

// Listen binds the socket. Run calls it implicitly; tests call it first
// to learn the chosen port.
func (d *DownloadResponder) Listen() (net.Addr, error) {
	if d.conn == nil {
		conn, err := net.ListenPacket("udp", d.addr)
		if err != nil {
			return nil, err
		}
		d.conn = conn
	}
	return d.conn.LocalAddr(), nil
}

func (d *DownloadResponder) Run(ctx context.Context) error {
	if _, err := d.Listen(); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		d.conn.Close()
	}()

	d.log.Info("download responder listening", "addr", d.conn.LocalAddr().String())

	buf := make([]byte, headerBufSize)
	for {
		n, raddr, err := d.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		filename := strings.TrimSpace(string(buf[:n]))
		if err := d.serve(raddr, filename); err != nil {
			d.log.Error("download failed", "filename", filename, "peer", raddr.String(), "error", err)
		}
	}
}

// serve answers one request end-to-end before the loop reads the next.
func (d *DownloadResponder) serve(raddr net.Addr, filename string) error {
	f, size, err := d.store.Open(filename)
	if err != nil {
		d.log.Warn("requested file not found", "filename", filename, "peer", raddr.String())
		_, werr := d.conn.WriteTo([]byte(notFoundSentinel), raddr)
		return werr
	}
	defer f.Close()

	header, err := EncodeDownloadHeader(DownloadHeader{Filename: filename, Size: size})
	if err != nil {
		return err
	}
	if _, err := d.conn.WriteTo(header, raddr); err != nil {
		return err
	}

	d.log.Info("sending file", "filename", filename, "size", size, "peer", raddr.String())

	buf := make([]byte, chunkSize)
	var sent int64
	for sent < size {
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := d.conn.WriteTo(buf[:n], raddr); werr != nil {
				return werr
			}
			sent += int64(n)
			time.Sleep(sendPacing)
		}
		if err != nil {
			break
		}
	}

	d.log.Info("file sent", "filename", filename, "bytes", sent)
	return nil
}
