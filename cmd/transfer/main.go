// Command transfer is the client-side counterpart of the UDP file
// protocol: it uploads a local file or fetches one by name.
//
//	transfer upload <path>
//	transfer download <filename>
package main

import (
	"fmt"
	"os"
	"time"

	"chat-hub/internal"
	"chat-hub/udp"

	"github.com/kelseyhightower/envconfig"
)

type config struct {
	Identity      string        `envconfig:"IDENTITY" required:"true"`
	UploadAddr    string        `envconfig:"UPLOAD_ADDR" default:"127.0.0.1:9001"`
	DownloadAddr  string        `envconfig:"DOWNLOAD_ADDR" default:"127.0.0.1:9002"`
	DownloadDir   string        `envconfig:"DOWNLOAD_DIR" default:"downloads"`
	HeaderTimeout time.Duration `envconfig:"HEADER_TIMEOUT" default:"5s"`
	BodyTimeout   time.Duration `envconfig:"BODY_TIMEOUT" default:"10s"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 3 {
		return fmt.Errorf("usage: transfer upload <path> | transfer download <filename>")
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}
	log := internal.NewLogger(cfg.LogLevel)

	switch os.Args[1] {
	case "upload":
		return udp.NewUploader(log, cfg.UploadAddr).SendFile(os.Args[2], cfg.Identity)
	case "download":
		downloader, err := udp.NewDownloader(log, cfg.DownloadAddr, cfg.DownloadDir,
			cfg.HeaderTimeout, cfg.BodyTimeout)
		if err != nil {
			return err
		}
		path, err := downloader.Download(os.Args[2])
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}
