package main

import (
	"context"

	"github.com/shulepay/shulepay/core/school"
)

// createSchool registers a school against an unused activation code.
func (cli *commandLine) createSchool(name, address, email, phone, code, pwd string) error {
	ns := school.NewSchool{
		Name:            name,
		Address:         address,
		Email:           email,
		Phone:           phone,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	sch, err := cli.schSvc.Register(context.Background(), ns, code)
	if err != nil {
		return err
	}
	logger.Printf("school %q registered", sch.Name)
	return nil
}
