package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/warehouse/internal/contracts"
)

// userCmd groups account subcommands
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var (
	userCreateCmd = &cobra.Command{
		Use:   "create [login] [password]",
		Short: "Create a non-admin account",
		Long: `Create an account with one of the roles:
  warehouse_chief, logist, sales_manager, receiver

Example:
  go run ./cmd/warehouse user create anna secret --role logist`,
		Args: cobra.ExactArgs(2),
		RunE: createUser,
	}

	userListCmd = &cobra.Command{
		Use:   "list",
		Short: "List non-admin accounts",
		RunE:  listUsers,
	}

	userRole string
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)

	userCreateCmd.Flags().StringVar(&userRole, "role", string(contracts.RoleSalesManager), "account role")
}

func createUser(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.auth.CreateAccount(cmd.Context(), args[0], args[1], contracts.Role(userRole))
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Account %s created (role %s)", user.Login, user.Role))
	return nil
}

func listUsers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.auth.ListAccounts(cmd.Context())
	if err != nil {
		return err
	}

	widths := []int{20, 16, 20}
	PrintTableHeader([]string{"Login", "Role", "Created"}, widths)
	for _, u := range users {
		PrintTableRow([]string{u.Login, string(u.Role), u.CreatedAt.Format("2006-01-02 15:04")}, widths)
	}
	return nil
}
