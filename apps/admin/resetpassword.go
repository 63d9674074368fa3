package main

import (
	"context"
	"time"

	"github.com/trezcool/alama/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	std, err := cli.stdRepo.GetStudentByUsername(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err = std.SetPassword(pwd); err != nil {
		return err
	}
	std.UpdatedAt = time.Now().UTC()
	if _, err = cli.stdRepo.UpdateStudent(ctx, std); err != nil {
		return err
	}
	return nil
}
