package udp

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Uploader is the client side of the upload protocol: one header
// datagram, then the file body, all fire-and-forget.
type Uploader struct {
	log        *slog.Logger
	serverAddr string
}

func NewUploader(log *slog.Logger, serverAddr string) *Uploader {
	return &Uploader{log: log, serverAddr: serverAddr}
}

// SendFile streams one local file to the upload receiver. There is no
// acknowledgment; the only confirmation a sender ever gets is the
// file-received push from the server.
func (u *Uploader) SendFile(path, sender string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	if stat.Size() > MaxFileSize {
		return fmt.Errorf("file size %d exceeds protocol limit %d", stat.Size(), MaxFileSize)
	}

	header, err := EncodeUploadHeader(UploadHeader{
		Sender:   sender,
		Filename: filepath.Base(path),
		Size:     stat.Size(),
	})
	if err != nil {
		return err
	}

	conn, err := net.Dial("udp", u.serverAddr)
	if err != nil {
		return fmt.Errorf("dialing upload server: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(header); err != nil {
		return fmt.Errorf("sending upload header: %w", err)
	}

	u.log.Info("uploading file", "filename", filepath.Base(path), "size", stat.Size())

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return fmt.Errorf("sending file data: %w", werr)
			}
			time.Sleep(sendPacing)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
