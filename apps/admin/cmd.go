package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/shulepay/shulepay/core"
	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/school"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sqlx.DB
	conf   *core.Config
	actSvc *activation.Service
	schSvc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args] - run database migrations (goose commands)")
	fmt.Println("  gencode [-email EMAIL] - issue a school activation code, optionally emailing it")
	fmt.Println("  createschool -name NAME -address ADDRESS -email EMAIL -phone PHONE -code CODE - register a school; the password will be prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	genCodeCmd := flag.NewFlagSet("gencode", flag.ExitOnError)
	genCodeEmail := genCodeCmd.String("email", "", "Email the new code to this address.")

	createSchoolCmd := flag.NewFlagSet("createschool", flag.ExitOnError)
	createSchoolName := createSchoolCmd.String("name", "", "The school's name.")
	createSchoolAddress := createSchoolCmd.String("address", "", "The school's address.")
	createSchoolEmail := createSchoolCmd.String("email", "", "The school's contact email.")
	createSchoolPhone := createSchoolCmd.String("phone", "", "The school's contact phone.")
	createSchoolCode := createSchoolCmd.String("code", "", "An unused activation code.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "gencode":
		if err := genCodeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.genCode(*genCodeEmail)
	case "createschool":
		if err := createSchoolCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createSchoolName == "" || *createSchoolCode == "" {
			createSchoolCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			createSchoolCmd.Usage()
			return errHelp
		}
		return cli.createSchool(
			*createSchoolName, *createSchoolAddress, *createSchoolEmail, *createSchoolPhone,
			*createSchoolCode, string(pwd),
		)
	default:
		cli.printUsage()
		return errHelp
	}
}
