package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/cryptox"
	"github.com/spf13/cobra"
)

const minPasswordLength = 8

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash the operator password for the config file",
		Long: `Prompts for the operator password twice and prints the argon2id hash to
put into "admin_password_hash" of the server config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return hashPassword(promptReader(cmd.InOrStdin()), cmd.ErrOrStderr(), cmd.OutOrStdout())
		},
	}
}

func hashPassword(in io.Reader, prompts, out io.Writer) error {
	pw, err := GetPassword(in, prompts, "Enter password: ")
	if err != nil {
		return err
	}
	if len(pw) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	confirm, err := GetPassword(in, prompts, "Repeat password: ")
	if err != nil {
		return err
	}
	if pw != confirm {
		return errors.New("passwords do not match")
	}
	if strings.TrimSpace(pw) != pw {
		fmt.Fprintln(prompts, "warning: password has leading or trailing spaces")
	}

	hash, err := cryptox.HashPassword(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
