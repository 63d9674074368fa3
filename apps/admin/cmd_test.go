package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
	emailsvc "github.com/trezcool/alama/services/email"
	inmemdb "github.com/trezcool/alama/storage/inmem"
	testutil "github.com/trezcool/alama/tests"
)

var (
	stdRepo student.Repository
	resRepo result.Repository
)

func setup(t *testing.T) *commandLine {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed, %v", err)
	}
	stdRepo = inmemdb.NewStudentRepository(db)
	resRepo = inmemdb.NewResultRepository(db)

	conf := core.NewConfig()
	stdSvc := student.NewService(stdRepo, emailsvc.NewConsoleServiceMock(conf), conf)

	return &commandLine{
		stdRepo: stdRepo,
		resSvc:  result.NewService(resRepo, stdSvc),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Awe M", "awe", "awe@test.cd", "P3", "mdr", false)

	type extra struct {
		pwd       string
		uname     string // refetched and checked when set
		wantEmail string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addadmin"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"addadmin", "-username", "boss"}, wantErr: errHelp},
		{name: "create admin", args: []string{"addadmin", "-username", "Boss", "-email", "boss@test.cd"},
			extra: extra{pwd: "s3cret", uname: "boss", wantEmail: "boss@test.cd"}},
		{name: "promote existing student", args: []string{"addadmin", "-username", std.Username},
			extra: extra{pwd: "newpwd", uname: std.Username, wantEmail: std.Email}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			extra, ok := tt.extra.(extra)
			if !ok {
				return
			}
			admin, err := stdRepo.GetStudentByUsername(context.Background(), extra.uname)
			if err != nil {
				t.Fatalf("GetStudentByUsername() failed, %v", err)
			}
			if admin.Role != student.RoleAdmin {
				t.Errorf("admin.Role = %s, want %s", admin.Role, student.RoleAdmin)
			}
			if admin.Email != extra.wantEmail {
				t.Errorf("admin.Email = %s, want %s", admin.Email, extra.wantEmail)
			}
			if err := admin.CheckPassword(extra.pwd); err != nil {
				t.Error("failed to set new password")
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	std := testutil.CreateStudent(t, stdRepo, "Awe M", "awe", "awe@test.cd", "P3", "mdr", false)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "student not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: student.ErrNotFound},
		{name: "reset password", args: []string{"resetpassword", "-username", std.Username}, extra: extra{pwd: "lol"}},
		{name: "username is cleaned", args: []string{"resetpassword", "-username", " AWE  "}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := stdRepo.GetStudentByID(context.Background(), std.ID)
				if err != nil {
					t.Fatalf("GetStudentByID() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, std.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_exportResults(t *testing.T) {
	cli := setup(t)

	amina := testutil.CreateStudent(t, stdRepo, "Amina K", "amina", "amina@test.cd", "P6", "", false)
	brian := testutil.CreateStudent(t, stdRepo, "Brian O", "brian", "brian@test.cd", "S1", "", false)

	algebraDate := core.NewDate(2024, time.June, 3)
	chemDate := core.NewDate(2024, time.June, 10)
	testutil.CreateResult(t, resRepo, amina.ID, "Algebra", algebraDate, null.Float64From(30), 50,
		core.NullDateFrom(core.NewDate(2024, time.June, 20)), "below pass mark")
	testutil.CreateResult(t, resRepo, brian.ID, "Algebra", algebraDate, null.Float64From(35), 50, core.NullDate{}, "")
	testutil.CreateResult(t, resRepo, amina.ID, "Chemistry", chemDate, null.Float64From(38), 40, core.NullDate{}, "")

	dir := t.TempDir()
	allPath := filepath.Join(dir, "all.xlsx")
	aminaPath := filepath.Join(dir, "amina.xlsx")

	type extra struct {
		path     string
		wantRows int
	}
	tests := []cliTest{
		{name: "out flag required", args: []string{"exportresults"}, wantErr: errHelp},
		{name: "export all", args: []string{"exportresults", "-out", allPath}, extra: extra{path: allPath, wantRows: 4}},
		{name: "export one student", args: []string{"exportresults", "-out", aminaPath, "-student", amina.ID},
			extra: extra{path: aminaPath, wantRows: 3}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			extra, ok := tt.extra.(extra)
			if !ok {
				return
			}
			f, err := excelize.OpenFile(extra.path)
			if err != nil {
				t.Fatalf("OpenFile() failed, %v", err)
			}
			defer f.Close()
			rows, err := f.GetRows("Results")
			if err != nil {
				t.Fatalf("GetRows() failed, %v", err)
			}
			if len(rows) != extra.wantRows {
				t.Fatalf("len(rows) = %d, want %d", len(rows), extra.wantRows)
			}
			// most recent test first
			if rows[1][0] != "Chemistry" {
				t.Errorf("rows[1][0] = %s, want Chemistry", rows[1][0])
			}
			if rows[1][4] != amina.Name {
				t.Errorf("rows[1][4] = %s, want %s", rows[1][4], amina.Name)
			}
		})
	}
}
