package main

import (
	"fmt"

	"github.com/trezcool/darasa/core/school"
)

func (cli *commandLine) createInstitution(name, code, address string) error {
	inst, admin, err := cli.svc.RegisterInstitution(school.NewInstitution{
		Name:    name,
		Code:    code,
		Address: address,
	})
	if err != nil {
		return err
	}
	fmt.Printf("institution %q registered with code %s\n", inst.Name, inst.Code)
	fmt.Printf("admin account: %s (first-login password applies)\n", admin.Username)
	return nil
}
