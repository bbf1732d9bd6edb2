package main

import (
	"context"
	"net/mail"
)

// genCode issues a new activation code, optionally emailing it.
func (cli *commandLine) genCode(email string) error {
	ctx := context.Background()

	if email != "" {
		code, err := cli.actSvc.GenerateFor(ctx, mail.Address{Address: email})
		if err != nil {
			return err
		}
		logger.Printf("activation code %s sent to %s", code.Code, email)
		return nil
	}

	code, err := cli.actSvc.Generate(ctx)
	if err != nil {
		return err
	}
	logger.Printf("activation code: %s", code.Code)
	return nil
}
