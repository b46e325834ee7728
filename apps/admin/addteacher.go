package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core"
	"github.com/thinkmate/thinkmate/core/user"
)

// addTeacher creates a teacher, or promotes and activates the user owning email.
func (cli *commandLine) addTeacher(ctx context.Context, name, email, pwd string) error {
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		nu := user.NewUser{
			Name:            name,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
			Roles:           []string{user.RoleTeacher},
		}
		if err = nu.Validate(cli.validate, cli.usrSvc); err != nil {
			return err
		}
		_, err = cli.usrSvc.Create(ctx, nu)
		return err
	}

	rp := user.ResetUserPassword{Email: email, Password: pwd, PasswordConfirm: pwd}
	if err = rp.Validate(cli.validate); err != nil {
		return err
	}
	if !usr.IsTeacher() {
		usr.Roles = append(usr.Roles, user.RoleTeacher)
	}
	usr.IsActive = true
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = user.NowFunc()
	_, err = cli.usrRepo.UpdateUser(ctx, usr)
	return err
}
