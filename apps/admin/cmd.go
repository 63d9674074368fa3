package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	stdRepo student.Repository
	resSvc  result.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addadmin -username USERNAME [-email EMAIL]  - create an admin account, or promote an existing one")
	fmt.Println("  resetpassword -username USERNAME            - reset a student's password")
	fmt.Println("  exportresults -out FILE [-student ID]       - export the results overview as an .xlsx workbook")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminUname := addAdminCmd.String("username", "", "The admin's username. The password will be prompted next.")
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The student's username. The password will be prompted next.")

	exportResultsCmd := flag.NewFlagSet("exportresults", flag.ExitOnError)
	exportResultsOut := exportResultsCmd.String("out", "", "Path of the .xlsx file to write.")
	exportResultsStudent := exportResultsCmd.String("student", "", "Restrict the export to a single student id.")

	switch args[1] {
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminUname == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword(addAdminCmd)
		if err != nil {
			return err
		}
		return cli.addAdmin(*addAdminUname, *addAdminEmail, pwd)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "exportresults":
		if err := exportResultsCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportResultsOut == "" {
			exportResultsCmd.Usage()
			return errHelp
		}
		return cli.exportResults(*exportResultsOut, *exportResultsStudent)
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword(cmd *flag.FlagSet) (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
