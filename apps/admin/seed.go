package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/thinkmate/thinkmate/core/interest"
	"github.com/thinkmate/thinkmate/core/student"
	"github.com/thinkmate/thinkmate/core/user"
)

var (
	seedStudents = []student.NewStudent{
		{Name: "김민지", Email: "minji@test.com"},
		{Name: "박준호", Email: "junho@test.com"},
		{Name: "이서현", Email: "seohyun@test.com"},
	}
	seedInterests = []interest.NewInterest{
		{Field: "AI", Level: 8, SocialImpact: interest.ImpactHigh},
		{Field: "환경보호", Level: 6, SocialImpact: interest.ImpactModerate},
	}
)

// seed creates the demo students with their interests. Students that already exist are skipped.
func (cli *commandLine) seed(ctx context.Context) error {
	for _, ns := range seedStudents {
		if _, err := cli.usrSvc.GetByEmail(ctx, ns.Email); err == nil {
			fmt.Printf("skipping %s: already exists\n", ns.Email)
			continue
		} else if errors.Cause(err) != user.ErrNotFound {
			return err
		}

		if err := ns.Validate(cli.validate, cli.usrSvc); err != nil {
			return err
		}
		st, err := cli.studentSvc.Register(ctx, ns)
		if err != nil {
			return err
		}
		for _, ni := range seedInterests {
			ni.StudentID = st.ID
			if err = ni.Validate(cli.validate); err != nil {
				return err
			}
			if _, err = cli.interestSvc.Create(ctx, ni); err != nil {
				return err
			}
		}
		fmt.Printf("created %s (%s)\n", ns.Name, ns.Email)
	}
	return nil
}
