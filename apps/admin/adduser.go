package main

import (
	"fmt"

	"github.com/trezcool/darasa/core/school"
)

func (cli *commandLine) addUser(role, first, last, institutionCode, classID, email string) error {
	usr, err := cli.svc.CreateUser(school.NewUser{
		FirstName:       first,
		LastName:        last,
		Email:           email,
		Role:            school.Role(role),
		InstitutionCode: institutionCode,
		ClassID:         classID,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s account created: %s (first-login password applies)\n", usr.Role, usr.Username)
	return nil
}
