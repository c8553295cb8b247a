package udp

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	"chat-hub/errors"
)

// Downloader is the client side of the download protocol. It issues one
// request and reassembles the reply into a local file.
//
// A short timeout guards the header wait and a longer one each body
// datagram. Either timeout is terminal for the attempt: no retry, no
// resume, and the partial file is removed.
type Downloader struct {
	log           *slog.Logger
	serverAddr    string
	dir           string
	headerTimeout time.Duration
	bodyTimeout   time.Duration
}

func NewDownloader(log *slog.Logger, serverAddr, dir string, headerTimeout, bodyTimeout time.Duration) (*Downloader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Downloader{
		log:           log,
		serverAddr:    serverAddr,
		dir:           dir,
		headerTimeout: headerTimeout,
		bodyTimeout:   bodyTimeout,
	}, nil
}

// Download fetches one file by name and returns the local path it was
// written to.
func (d *Downloader) Download(filename string) (string, error) {
	conn, err := net.Dial("udp", d.serverAddr)
	if err != nil {
		return "", fmt.Errorf("dialing download server: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(filename)); err != nil {
		return "", fmt.Errorf("sending download request: %w", err)
	}

	buf := make([]byte, headerBufSize)
	if err := conn.SetReadDeadline(time.Now().Add(d.headerTimeout)); err != nil {
		return "", err
	}
	n, err := conn.Read(buf)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("waiting for download header: %w", errors.ErrDownloadTimeout)
		}
		return "", fmt.Errorf("reading download header: %w", err)
	}

	if bytes.Equal(buf[:n], []byte(notFoundSentinel)) {
		return "", errors.ErrFileNotFound
	}

	header, err := DecodeDownloadHeader(buf[:n])
	if err != nil {
		return "", fmt.Errorf("decoding download header: %w", err)
	}

	d.log.Info("receiving file", "filename", header.Filename, "size", header.Size)

	path := filepath.Join(d.dir, filepath.Base(header.Filename))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := d.receiveBody(conn, f, header.Size); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	d.log.Info("file downloaded", "filename", header.Filename, "path", path)
	return path, nil
}

// receiveBody writes datagrams in receipt order up to the declared size,
// truncating any overflow and ignoring empty datagrams.
func (d *Downloader) receiveBody(conn net.Conn, f *os.File, size int64) error {
	buf := make([]byte, chunkSize)
	var received int64
	for received < size {
		if err := conn.SetReadDeadline(time.Now().Add(d.bodyTimeout)); err != nil {
			return err
		}
		n, err := conn.Read(buf)
		if err != nil {
			if isTimeout(err) {
				return fmt.Errorf("waiting for file data: %w", errors.ErrDownloadTimeout)
			}
			return fmt.Errorf("reading file data: %w", err)
		}
		if n == 0 {
			continue
		}
		chunk := int64(n)
		if received+chunk > size {
			chunk = size - received
		}
		if _, err := f.Write(buf[:chunk]); err != nil {
			return err
		}
		received += chunk
	}
	return nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}
