// Command badger_inspect dumps the account records of a running or
// stopped server's BadgerDB. Read-only with the lock guard bypassed, so
// it is safe to point at a live server's database.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"chat-hub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", "badger", "Path to badger DB")
	prefix := flag.String("prefix", "user:", "Key prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Identity", "Created", "Hash"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	count := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			err := item.Value(func(v []byte) error {
				var user repositories.User
				if err := json.Unmarshal(v, &user); err != nil {
					// Keep scanning past a broken record.
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				// The hash is argon2id output; only the prefix is useful
				// for eyeballing.
				displayHash := user.SecretHash
				if len(displayHash) > 24 {
					displayHash = displayHash[:24] + "..."
				}

				table.Append([]string{
					string(item.Key()),
					user.Identity,
					humanize.Time(user.CreatedAt),
					displayHash,
				})
				count++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	fmt.Printf("%d account(s)\n", count)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
