package main

import (
	"context"
	"time"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

// addUser updates or creates an admin account.
func (cli *commandLine) addUser(uname, nama, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	nama = core.CleanString(nama)
	email = core.CleanString(email, true /* lower */)

	p, err := cli.penggunaRepo.GetPengguna(ctx, pengguna.GetFilter{Username: uname})
	if err != nil {
		if err != pengguna.ErrNotFound {
			return err
		}
		p = pengguna.Pengguna{
			Username:  uname,
			CreatedAt: time.Now().UTC(),
		}
	}
	p.Role = pengguna.RoleAdmin
	if nama != "" {
		p.Nama = nama
	} else if p.Nama == "" {
		p.Nama = uname
	}
	if email != "" {
		p.Email = &email
	}
	if err := p.SetPassword(pwd); err != nil {
		return err
	}

	if p.ID == 0 {
		_, err = cli.penggunaRepo.CreatePengguna(ctx, p)
		return err
	}
	if _, err = cli.penggunaRepo.UpdatePengguna(ctx, p); err != nil {
		return err
	}
	return cli.penggunaRepo.UpdatePassword(ctx, p.ID, p.PasswordHash)
}
