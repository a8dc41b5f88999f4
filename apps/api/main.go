package main

import (
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/enlift/backend/apps/api/echo"
	"github.com/enlift/backend/core"
	"github.com/enlift/backend/core/contact"
	"github.com/enlift/backend/core/student"
	emailsvc "github.com/enlift/backend/services/email"
	logsvc "github.com/enlift/backend/services/logger"
	"github.com/enlift/backend/storage/database"
	"github.com/enlift/backend/storage/filestore"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	wd, err := os.Getwd()
	errAndDie(std, err)
	conf, err := core.NewConfig(wd)
	errAndDie(std, err)

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up validation
	translator := ut.New(en.New())
	trans, _ := translator.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, trans)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(std, err)
	defer db.Close()
	errAndDie(std, database.Migrate(db))

	// set up backup storage
	backups, err := filestore.NewStore(conf)
	errAndDie(std, err)

	// set up services
	var noticeSvc core.NoticeService
	if !conf.Debug && conf.SendgridApiKey != "" {
		noticeSvc = emailsvc.NewSendgridService(conf, logger)
	} else {
		noticeSvc, err = emailsvc.NewFileService(conf, logger)
		errAndDie(std, err)
	}

	repo := database.NewStudentRepository(db)
	studentValidator := student.NewValidator(validate, trans)
	contactValidator := contact.NewValidator(validate, trans)
	studentSvc := student.NewService(repo, backups, noticeSvc, studentValidator, logger)
	adminSvc := student.NewAdminService(repo, studentValidator, logger)
	contactSvc := contact.NewService(backups, contactValidator, logger)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Addr:       conf.Server.Addr,
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: trans,
		StudentSvc: studentSvc,
		AdminSvc:   adminSvc,
		ContactSvc: contactSvc,
	})
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
