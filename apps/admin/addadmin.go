package main

import (
	"context"
	"time"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/student"
)

// addAdmin creates an admin account, or promotes an existing account to admin.
func (cli *commandLine) addAdmin(uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	std, err := cli.stdRepo.GetStudentByUsername(ctx, uname)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		std = student.Student{
			Name:      uname,
			Username:  uname,
			Email:     email,
			Role:      student.RoleAdmin,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = std.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.stdRepo.CreateStudent(ctx, std)
		return err
	}

	std.Role = student.RoleAdmin
	if email != "" {
		std.Email = email
	}
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	_, err = cli.stdRepo.UpdateStudent(ctx, std)
	return err
}
