package main

import (
	"context"

	"github.com/thinkmate/thinkmate/core/user"
)

func (cli *commandLine) resetPassword(ctx context.Context, email, pwd string) error {
	rp := user.ResetUserPassword{Email: email, Password: pwd, PasswordConfirm: pwd}
	if err := rp.Validate(cli.validate); err != nil {
		return err
	}
	_, err := cli.usrSvc.ResetPassword(ctx, rp)
	return err
}
