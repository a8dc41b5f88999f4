package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/enlift/backend/core/admin"
	"github.com/enlift/backend/core/student"
	"github.com/enlift/backend/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errLoginDenied = errors.New("admin login required")
)

type commandLine struct {
	db       *sqlx.DB
	adminSvc *student.AdminService
	gate     *admin.Gate
	stdin    io.Reader
	in       *bufio.Reader // wraps stdin once; prompts share the buffer
}

func (cli *commandLine) reader() *bufio.Reader {
	if cli.in == nil {
		cli.in = bufio.NewReader(cli.stdin)
	}
	return cli.in
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate                - create the record table if absent")
	fmt.Println("  export [-o FILE]       - export all registrations to CSV (admin login prompted)")
	fmt.Println("  clearall               - delete all registrations (admin login and typed confirmation prompted)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	exportOut := exportCmd.String("o", "", "Output file. Defaults to enlift_students_<timestamp>.csv.")

	switch args[1] {
	case "migrate":
		return database.Migrate(cli.db)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if err := cli.login(); err != nil {
			return err
		}
		return cli.export(*exportOut)
	case "clearall":
		if err := cli.login(); err != nil {
			return err
		}
		return cli.clearAll()
	default:
		cli.printUsage()
		return errHelp
	}
}

// login prompts for the operator credential pair and opens the gate; the
// review commands are unreachable without it.
func (cli *commandLine) login() error {
	reader := cli.reader()

	fmt.Print("Username: ")
	username, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	fmt.Print("Password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return err
	}

	res := cli.gate.Login(trimLine(username), string(pwd))
	if !res.OK {
		return fmt.Errorf("%w: %s", errLoginDenied, res.Message)
	}
	return nil
}

func (cli *commandLine) export(out string) error {
	if out == "" {
		out = fmt.Sprintf("enlift_students_%s.csv", time.Now().UTC().Format("20060102_150405"))
	}

	students, err := cli.adminSvc.QueryAll()
	if err != nil {
		return err
	}
	data, err := cli.adminSvc.ExportCSV(students)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%d records exported to %s\n", len(students), out)
	return nil
}

func (cli *commandLine) clearAll() error {
	fmt.Println("This will delete all student records. This action cannot be undone!")
	fmt.Printf("Type '%s' to confirm: ", student.ConfirmationToken)

	confirm, err := cli.reader().ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	if err := cli.adminSvc.ClearAll(trimLine(confirm)); err != nil {
		return err
	}
	fmt.Println("All student records have been deleted.")
	return nil
}

func trimLine(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
