package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/cook-platform/services"
	"github.com/yeremiapane/cook-platform/utils"
)

var superuser struct {
	username string
	email    string
	password string
}

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a staff account for the admin API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if superuser.username == "" || superuser.password == "" {
			return errors.New("--username and --password are required")
		}
		_, db, err := setup()
		if err != nil {
			return err
		}

		user, err := services.NewUserService(db, nil).CreateSuperuser(superuser.username, superuser.email, superuser.password)
		if err != nil {
			return err
		}
		utils.InfoLogger.Printf("Superuser %s created (id %d)", user.Username, user.ID)
		return nil
	},
}

func init() {
	f := createSuperuserCmd.Flags()
	f.StringVar(&superuser.username, "username", "", "login name")
	f.StringVar(&superuser.email, "email", "", "email address")
	f.StringVar(&superuser.password, "password", "", "password")
}
