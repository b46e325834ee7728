package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

func (cli *commandLine) importStats(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening stats file")
	}
	defer func() { _ = f.Close() }()

	imported, skipped, err := cli.countrySvc.ImportCSV(ctx, f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d rows, skipped %d\n", imported, skipped)
	return nil
}
