package main

import (
	"fmt"

	"github.com/trezcool/darasa/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.svc.Store().UserByUsername(core.CleanString(uname))
	if err != nil {
		return err
	}
	if _, err := cli.svc.UpdatePassword(usr.ID, pwd); err != nil {
		return err
	}
	fmt.Printf("password reset for %s\n", usr.Username)
	return nil
}
