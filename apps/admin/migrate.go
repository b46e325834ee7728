package main

import (
	"context"

	"github.com/pkg/errors"
)

var errNoDatabase = errors.New("migrations need a database, drop -inmem")

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return migrateFunc(ctx, cli.db, args[0], args[1:]...)
}
