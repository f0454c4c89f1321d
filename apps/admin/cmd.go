package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/darasa/core/school"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	svc *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  createinstitution -name NAME -code CODE [-address ADDRESS] - register an institution and provision its admin account")
	fmt.Println("  adduser -role ROLE -first FIRSTNAME -last LASTNAME -institution CODE [-class CLASSID] [-email EMAIL] - create a user account")
	fmt.Println("  resetpassword -username USERNAME - reset a user's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createInstCmd := flag.NewFlagSet("createinstitution", flag.ExitOnError)
	createInstName := createInstCmd.String("name", "", "The institution's name.")
	createInstCode := createInstCmd.String("code", "", "The institution's unique code.")
	createInstAddr := createInstCmd.String("address", "", "The institution's address.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserRole := addUserCmd.String("role", "", "The user's role: admin, faculty, student or parent.")
	addUserFirst := addUserCmd.String("first", "", "The user's first name.")
	addUserLast := addUserCmd.String("last", "", "The user's last name.")
	addUserInst := addUserCmd.String("institution", "", "The institution code.")
	addUserClass := addUserCmd.String("class", "", "The class id (students only).")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "createinstitution":
		if err := createInstCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createInstName == "" || *createInstCode == "" {
			createInstCmd.Usage()
			return errHelp
		}
		return cli.createInstitution(*createInstName, *createInstCode, *createInstAddr)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserRole == "" || *addUserFirst == "" || *addUserLast == "" || *addUserInst == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserRole, *addUserFirst, *addUserLast, *addUserInst, *addUserClass, *addUserEmail)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
