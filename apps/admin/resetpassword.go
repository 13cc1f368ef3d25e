package main

import (
	"context"

	"github.com/sekolahku/backend/core"
	"github.com/sekolahku/backend/core/pengguna"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	p, err := cli.penggunaRepo.GetPengguna(ctx, pengguna.GetFilter{Username: core.CleanString(uname, true /* lower */)})
	if err != nil {
		return err
	}
	if err := p.SetPassword(pwd); err != nil {
		return err
	}
	return cli.penggunaRepo.UpdatePassword(ctx, p.ID, p.PasswordHash)
}
