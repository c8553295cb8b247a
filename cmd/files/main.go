// Command files lists the shared upload directory, the server-side view
// of every transferred file.
package main

import (
	"fmt"
	"os"

	"chat-hub/storage"

	"github.com/dustin/go-humanize"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type config struct {
	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return err
	}

	files, err := store.List()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Size", "Type"})
	for _, f := range files {
		table.Append([]string{f.Name, humanize.Bytes(uint64(f.Size)), store.DetectMime(f.Name)})
	}
	table.Render()

	fmt.Printf("%d file(s) in %s\n", len(files), cfg.UploadDir)
	return nil
}
