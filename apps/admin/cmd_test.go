package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
	"github.com/sekolahku/backend/storage/database"
	dummydb "github.com/sekolahku/backend/storage/database/dummy"
)

var penggunaRepo pengguna.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	penggunaRepo = dummydb.NewPenggunaRepository(db)

	return &commandLine{penggunaRepo: penggunaRepo}
}

func createPengguna(t *testing.T, uname, pwd string) pengguna.Pengguna {
	t.Helper()

	p := pengguna.Pengguna{
		Username:  uname,
		Role:      pengguna.RoleAdmin,
		Nama:      uname,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	p, err := penggunaRepo.CreatePengguna(context.Background(), p)
	if err != nil {
		t.Fatalf("CreatePengguna() failed, %v", err)
	}
	return p
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	migrateRunFunc = func(db *database.DB, conf *core.Config, command string, args ...string) error {
		switch command {
		case "up", "down", "reset", "version": // pass
		case "force":
			if len(args) == 0 {
				return fmt.Errorf("force must be of form: admin migrate force VERSION")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "force: no args", args: []string{"migrate", "force"}, wantErrStr: "force must be of form: admin migrate force VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "force", args: []string{"migrate", "force", "1"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	existing := createPengguna(t, "bambang", "rahasia1")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"adduser", "-username", "siti"}, wantErr: errHelp},
		{name: "create new admin", args: []string{"adduser", "-username", "siti", "-nama", "Siti Aminah"}, extra: extra{pwd: "rahasia2"}},
		{name: "update existing account", args: []string{"adduser", "-username", existing.Username}, extra: extra{pwd: "rahasia3"}},
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
				p, err := penggunaRepo.GetPengguna(context.Background(), pengguna.GetFilter{Username: tt.args[2]})
				if err != nil {
					t.Fatalf("GetPengguna() failed, %v", err)
				}
				if p.Role != pengguna.RoleAdmin {
					t.Errorf("addUser() role = %s, want %s", p.Role, pengguna.RoleAdmin)
				}
				if extra, ok := tt.extra.(extra); ok {
					if cpErr := p.CheckPassword(extra.pwd); cpErr != nil {
						t.Error("failed to set password")
					}
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createPengguna(t, "budi", "rahasia1")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: pengguna.ErrNotFound},
		{name: "reset password", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "barubaru"}},
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
				refreshed, err := penggunaRepo.GetPengguna(context.Background(), pengguna.GetFilter{ID: usr.ID})
				if err != nil {
					t.Fatalf("GetPengguna() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
