package main

import (
	"log"
	"os"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
	emailsvc "github.com/trezcool/alama/services/email"
	restrepos "github.com/trezcool/alama/storage/rest"
	"github.com/trezcool/alama/storage/store"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up the hosted data store
	client, err := store.NewClient(conf)
	errAndDie(err)

	stdRepo := restrepos.NewStudentRepository(client)
	stdSvc := student.NewService(stdRepo, emailsvc.NewConsoleService(conf), conf)

	// start CLI
	cli := commandLine{
		stdRepo: stdRepo,
		resSvc:  result.NewService(restrepos.NewResultRepository(client), stdSvc),
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
