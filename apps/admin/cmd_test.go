package main

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := &core.Config{DefaultPassword: "12345678", TestMode: true}
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))
	svc := school.NewService(inmem.NewSchoolStore(inmem.Open()), conf, logger)
	return &commandLine{svc: svc}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_createInstitution(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"createinstitution"}, wantErr: errHelp},
		{name: "name but no code", args: []string{"createinstitution", "-name", "Void Academy"}, wantErr: errHelp},
		{name: "ok", args: []string{"createinstitution", "-name", "Void Academy", "-code", "VOID01"}},
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
			if _, err := cli.svc.Store().InstitutionByCode("VOID01"); err != nil {
				t.Errorf("InstitutionByCode() failed, %v", err)
			}
			if _, err := cli.svc.Store().UserByUsername("ADMVOID01VOID"); err != nil {
				t.Errorf("admin account missing, %v", err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "createinstitution", "-name", "Void Academy", "-code", "VOID01"}); err != nil {
		t.Fatalf("createinstitution failed, %v", err)
	}
	cls, err := cli.svc.OpenClass(school.NewClass{Name: "10th Grade A", Grade: "10", Section: "A", InstitutionCode: "VOID01"})
	if err != nil {
		t.Fatalf("OpenClass() failed, %v", err)
	}

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "missing institution", args: []string{"adduser", "-role", "faculty", "-first", "Jane", "-last", "Doe"}, wantErr: errHelp},
		{name: "faculty", args: []string{"adduser", "-role", "faculty", "-first", "Jane", "-last", "Doe", "-institution", "VOID01"}},
		{name: "student", args: []string{"adduser", "-role", "student", "-first", "John", "-last", "Doe", "-institution", "VOID01", "-class", cls.ID}},
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
		})
	}

	// the student must have been enrolled
	refreshed, err := cli.svc.Store().ClassByID(cls.ID)
	if err != nil {
		t.Fatalf("ClassByID() failed, %v", err)
	}
	if len(refreshed.StudentIDs) != 1 {
		t.Errorf("len(StudentIDs) = %d, want 1", len(refreshed.StudentIDs))
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "createinstitution", "-name", "Void Academy", "-code", "VOID01"}); err != nil {
		t.Fatalf("createinstitution failed, %v", err)
	}
	usr, err := cli.svc.Store().UserByUsername("ADMVOID01VOID")
	if err != nil {
		t.Fatalf("UserByUsername() failed, %v", err)
	}

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: school.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "newpassword"}},
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
				refreshedUsr, err := cli.svc.Store().UserByID(usr.ID)
				if err != nil {
					t.Fatalf("UserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
				if refreshedUsr.IsFirstLogin {
					t.Error("IsFirstLogin still set after password reset")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
