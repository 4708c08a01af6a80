package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bankdesk/bank-console/internal/app"
	"github.com/bankdesk/bank-console/internal/config"
	"github.com/bankdesk/bank-console/pkg/transactions"
)

const usage = `usage: txctl <command> [flags]

commands:
  list   [-page N] [-size N]
  create -f FILE
  update -id ID -f FILE
  delete -id ID

FILE is a JSON transaction record; "-" reads stdin.`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "txctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return dispatch(ctx, app.NewTransactionsClient(cfg), args, stdin, stdout)
}

func dispatch(ctx context.Context, client *transactions.Client, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	page := fs.Int("page", transactions.DefaultPage, "page number")
	size := fs.Int("size", transactions.DefaultSize, "page size")
	id := fs.String("id", "", "transaction id")
	file := fs.String("f", "", "JSON record file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var (
		result any
		err    error
	)
	switch args[0] {
	case "list":
		result, err = client.List(ctx, *page, *size)
	case "create":
		var tx *transactions.Transaction
		if tx, err = readRecord(*file, stdin); err == nil {
			result, err = client.Create(ctx, tx)
		}
	case "update":
		var tx *transactions.Transaction
		if tx, err = readRecord(*file, stdin); err == nil {
			result, err = client.Update(ctx, *id, tx)
		}
	case "delete":
		result, err = client.Delete(ctx, *id)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// readRecord decodes a transaction from path, or stdin when path is "-".
func readRecord(path string, stdin io.Reader) (*transactions.Transaction, error) {
	var r io.Reader
	switch path {
	case "":
		return nil, errors.New("-f is required")
	case "-":
		r = stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open record: %w", err)
		}
		defer f.Close()
		r = f
	}

	var tx transactions.Transaction
	if err := json.NewDecoder(r).Decode(&tx); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &tx, nil
}
