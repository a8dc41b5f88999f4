package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/admin"
	"github.com/enlift/backend/core/student"
	logsvc "github.com/enlift/backend/services/logger"
	"github.com/enlift/backend/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	wd, err := os.Getwd()
	errAndDie(err)
	conf, err := core.NewConfig(wd)
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	translator := ut.New(en.New())
	trans, _ := translator.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, trans)

	// start CLI
	cli := commandLine{
		db:       db,
		adminSvc: student.NewAdminService(database.NewStudentRepository(db), student.NewValidator(validate, trans), logsvc.NewStdLogger(logger)),
		gate:     admin.NewGate(conf),
		stdin:    os.Stdin,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
