package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/shahjs01/kylo/pkg/secret"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a credential for use in manifests",
	Long: `Encrypt a credential with a passphrase.

The printed ciphertext can be used as the password value of a manifest with
mode encrypted_text_entry, or written to a file referenced by mode
encrypted_on_hdfs_file. When no value argument is given, the plaintext is
read from stdin, which keeps it out of shell history.

The passphrase comes from --passphrase or the KYLO_PASSPHRASE environment
variable.

Example:
  kylo encrypt --passphrase s3cret hunter2
  printf hunter2 | kylo encrypt --passphrase s3cret`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncrypt,
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [value]",
	Short: "Decrypt an encrypted credential",
	Long: `Decrypt a previously encrypted credential and print the plaintext.

Intended for verifying stored credentials; prefer piping the output rather
than displaying it on a shared terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecrypt,
}

var (
	encryptPassphrase string
	decryptPassphrase string
)

func init() {
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)

	encryptCmd.Flags().StringVar(&encryptPassphrase, "passphrase", "", "Passphrase (defaults to KYLO_PASSPHRASE)")
	decryptCmd.Flags().StringVar(&decryptPassphrase, "passphrase", "", "Passphrase (defaults to KYLO_PASSPHRASE)")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(encryptPassphrase)
	if err != nil {
		return err
	}

	plain, err := resolveValue(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	encrypted, err := secret.Encrypt(plain, passphrase)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Encryption failed", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), encrypted)
	return nil
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	passphrase, err := resolvePassphrase(decryptPassphrase)
	if err != nil {
		return err
	}

	encrypted, err := resolveValue(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	plain, err := secret.Decrypt(encrypted, passphrase)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Decryption failed", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), plain)
	return nil
}

func resolvePassphrase(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("KYLO_PASSPHRASE"); env != "" {
		return env, nil
	}
	return "", exitError(foundry.ExitInvalidArgument, "Missing passphrase",
		fmt.Errorf("set --passphrase or KYLO_PASSPHRASE"))
}

func resolveValue(in io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", exitError(foundry.ExitInvalidArgument, "Failed to read value from stdin", err)
	}
	value := strings.TrimRight(string(data), "\r\n")
	if value == "" {
		return "", exitError(foundry.ExitInvalidArgument, "Missing value",
			fmt.Errorf("pass a value argument or pipe it on stdin"))
	}
	return value, nil
}
