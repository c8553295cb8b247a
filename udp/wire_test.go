package udp

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadHeader_Roundtrip(t *testing.T) {
	req := require.New(t)
	header := UploadHeader{Sender: "alice", Filename: "photo.png", Size: 123456}

	buf, err := EncodeUploadHeader(header)
	req.NoError(err)
	decoded, err := DecodeUploadHeader(buf)
	req.NoError(err)
	req.Equal(header, decoded)
}

func TestDownloadHeader_Roundtrip(t *testing.T) {
	req := require.New(t)
	header := DownloadHeader{Filename: "notes.txt", Size: 42}

	buf, err := EncodeDownloadHeader(header)
	req.NoError(err)
	decoded, err := DecodeDownloadHeader(buf)
	req.NoError(err)
	req.Equal(header, decoded)
}

func TestUploadHeader_Is_BigEndian(t *testing.T) {
	req := require.New(t)

	buf, err := EncodeUploadHeader(UploadHeader{Sender: "a", Filename: "b", Size: 1})
	req.NoError(err)

	// [00 00 00 01]['a'][00 00 00 01]['b'][00 .. 00 01]
	req.Equal([]byte{0, 0, 0, 1, 'a', 0, 0, 0, 1, 'b', 0, 0, 0, 0, 0, 0, 0, 1}, buf)
}

func TestDecodeUploadHeader_Rejects_Bad_Frames(t *testing.T) {
	// craft builds a frame with arbitrary field values, bypassing the
	// encoder's own bounds checks.
	craft := func(senderLen int32, sender string, nameLen int32, name string, size int64) []byte {
		buf := binary.BigEndian.AppendUint32(nil, uint32(senderLen))
		buf = append(buf, sender...)
		buf = binary.BigEndian.AppendUint32(buf, uint32(nameLen))
		buf = append(buf, name...)
		return binary.BigEndian.AppendUint64(buf, uint64(size))
	}

	tests := []struct {
		name  string
		frame []byte
	}{
		{"empty frame", nil},
		{"zero sender length", craft(0, "", 1, "f", 1)},
		{"negative sender length", craft(-1, "", 1, "f", 1)},
		{"sender length past buffer", craft(100, "alice", 1, "f", 1)},
		{"sender length over limit", craft(maxSenderLen + 1, strings.Repeat("a", maxSenderLen+1), 1, "f", 1)},
		{"zero filename length", craft(1, "a", 0, "", 1)},
		{"filename length over limit", craft(1, "a", maxFilenameLen+1, strings.Repeat("f", maxFilenameLen+1), 1)},
		{"negative declared size", craft(1, "a", 1, "f", -5)},
		{"declared size over limit", craft(1, "a", 1, "f", MaxFileSize+1)},
		{"truncated before size", craft(1, "a", 1, "f", 1)[:10]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeUploadHeader(tt.frame)
			require.Error(t, err)
		})
	}
}

func TestDecodeDownloadHeader_Rejects_Bad_Frames(t *testing.T) {
	craft := func(nameLen int32, name string, size int64) []byte {
		buf := binary.BigEndian.AppendUint32(nil, uint32(nameLen))
		buf = append(buf, name...)
		return binary.BigEndian.AppendUint64(buf, uint64(size))
	}

	tests := []struct {
		name  string
		frame []byte
	}{
		{"empty frame", nil},
		{"zero filename length", craft(0, "", 1)},
		{"filename length past buffer", craft(50, "short", 1)},
		{"declared size over limit", craft(1, "f", MaxFileSize+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDownloadHeader(tt.frame)
			require.Error(t, err)
		})
	}
}

func TestEncodeUploadHeader_Bounds(t *testing.T) {
	req := require.New(t)

	_, err := EncodeUploadHeader(UploadHeader{Sender: "", Filename: "f", Size: 1})
	req.Error(err)
	_, err = EncodeUploadHeader(UploadHeader{Sender: "a", Filename: "", Size: 1})
	req.Error(err)
	_, err = EncodeUploadHeader(UploadHeader{Sender: strings.Repeat("a", maxSenderLen+1), Filename: "f", Size: 1})
	req.Error(err)
	_, err = EncodeUploadHeader(UploadHeader{Sender: "a", Filename: "f", Size: MaxFileSize + 1})
	req.Error(err)

	// Exactly at the limits is fine
	_, err = EncodeUploadHeader(UploadHeader{
		Sender:   strings.Repeat("a", maxSenderLen),
		Filename: strings.Repeat("f", maxFilenameLen),
		Size:     MaxFileSize,
	})
	req.NoError(err)
}
