// Package udp implements the file transfer protocol: fire-and-forget
// uploads and request/response downloads, both framed as a single header
// datagram followed by raw body datagrams.
//
// All integers on the wire are big-endian. There are no acknowledgments,
// sequence numbers or session tags: one transfer is serviced end-to-end
// per receive loop, and interleaved datagrams from concurrent transfers
// to the same socket are not safe.
package udp

import (
	"encoding/binary"
	"fmt"
)

const (
	// MaxFileSize is the largest declared size a header may carry.
	MaxFileSize = 100_000_000

	maxSenderLen   = 256
	maxFilenameLen = 512

	headerBufSize = 2048
	chunkSize     = 8192

	notFoundSentinel = "FILE_NOT_FOUND"
)

// UploadHeader precedes the body datagrams of one upload:
// [int32 senderLen][sender][int32 filenameLen][filename][int64 fileSize].
type UploadHeader struct {
	Sender   string
	Filename string
	Size     int64
}

// DownloadHeader precedes the body datagrams of one download:
// [int32 filenameLen][filename][int64 fileSize].
type DownloadHeader struct {
	Filename string
	Size     int64
}

// wireReader walks a datagram, checking every length against the
// remaining buffer before reading.
type wireReader struct {
	buf []byte
	off int
}

func (r *wireReader) int32() (int32, error) {
	if r.off+4 > len(r.buf) {
		return 0, fmt.Errorf("truncated frame: need 4 bytes at offset %d", r.off)
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.off:]))
	r.off += 4
	return v, nil
}

func (r *wireReader) int64() (int64, error) {
	if r.off+8 > len(r.buf) {
		return 0, fmt.Errorf("truncated frame: need 8 bytes at offset %d", r.off)
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.off:]))
	r.off += 8
	return v, nil
}

func (r *wireReader) bytes(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, fmt.Errorf("truncated frame: need %d bytes at offset %d", n, r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// DecodeUploadHeader validates field bounds and parses an upload header.
// A frame that fails any bound is rejected whole; the receiver drops it
// and keeps listening.
func DecodeUploadHeader(buf []byte) (UploadHeader, error) {
	r := &wireReader{buf: buf}

	senderLen, err := r.int32()
	if err != nil {
		return UploadHeader{}, err
	}
	if senderLen <= 0 || senderLen > maxSenderLen {
		return UploadHeader{}, fmt.Errorf("sender length %d out of bounds (0, %d]", senderLen, maxSenderLen)
	}
	sender, err := r.bytes(int(senderLen))
	if err != nil {
		return UploadHeader{}, err
	}

	filenameLen, err := r.int32()
	if err != nil {
		return UploadHeader{}, err
	}
	if filenameLen <= 0 || filenameLen > maxFilenameLen {
		return UploadHeader{}, fmt.Errorf("filename length %d out of bounds (0, %d]", filenameLen, maxFilenameLen)
	}
	filename, err := r.bytes(int(filenameLen))
	if err != nil {
		return UploadHeader{}, err
	}

	size, err := r.int64()
	if err != nil {
		return UploadHeader{}, err
	}
	if size < 0 || size > MaxFileSize {
		return UploadHeader{}, fmt.Errorf("file size %d out of bounds [0, %d]", size, MaxFileSize)
	}

	return UploadHeader{
		Sender:   string(sender),
		Filename: string(filename),
		Size:     size,
	}, nil
}

// EncodeUploadHeader builds the wire form of an upload header, applying
// the same bounds as the decoder so a peer never sees an invalid frame.
func EncodeUploadHeader(h UploadHeader) ([]byte, error) {
	sender, filename := []byte(h.Sender), []byte(h.Filename)
	if len(sender) == 0 || len(sender) > maxSenderLen {
		return nil, fmt.Errorf("sender length %d out of bounds (0, %d]", len(sender), maxSenderLen)
	}
	if len(filename) == 0 || len(filename) > maxFilenameLen {
		return nil, fmt.Errorf("filename length %d out of bounds (0, %d]", len(filename), maxFilenameLen)
	}
	if h.Size < 0 || h.Size > MaxFileSize {
		return nil, fmt.Errorf("file size %d out of bounds [0, %d]", h.Size, MaxFileSize)
	}

	buf := make([]byte, 0, 4+len(sender)+4+len(filename)+8)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(sender)))
	buf = append(buf, sender...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(filename)))
	buf = append(buf, filename...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(h.Size))
	return buf, nil
}

// DecodeDownloadHeader parses and bounds-checks a download header.
func DecodeDownloadHeader(buf []byte) (DownloadHeader, error) {
	r := &wireReader{buf: buf}

	filenameLen, err := r.int32()
	if err != nil {
		return DownloadHeader{}, err
	}
	if filenameLen <= 0 || filenameLen > maxFilenameLen {
		return DownloadHeader{}, fmt.Errorf("filename length %d out of bounds (0, %d]", filenameLen, maxFilenameLen)
	}
	filename, err := r.bytes(int(filenameLen))
	if err != nil {
		return DownloadHeader{}, err
	}

	size, err := r.int64()
	if err != nil {
		return DownloadHeader{}, err
	}
	if size < 0 || size > MaxFileSize {
		return DownloadHeader{}, fmt.Errorf("file size %d out of bounds [0, %d]", size, MaxFileSize)
	}

	return DownloadHeader{Filename: string(filename), Size: size}, nil
}

// EncodeDownloadHeader builds the wire form of a download header.
func EncodeDownloadHeader(h DownloadHeader) ([]byte, error) {
	filename := []byte(h.Filename)
	if len(filename) == 0 || len(filename) > maxFilenameLen {
		return nil, fmt.Errorf("filename length %d out of bounds (0, %d]", len(filename), maxFilenameLen)
	}
	if h.Size < 0 || h.Size > MaxFileSize {
		return nil, fmt.Errorf("file size %d out of bounds [0, %d]", h.Size, MaxFileSize)
	}

	buf := make([]byte, 0, 4+len(filename)+8)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(filename)))
	buf = append(buf, filename...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(h.Size))
	return buf, nil
}
