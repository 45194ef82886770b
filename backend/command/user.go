package command

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/services"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	cmd.AddCommand(
		userCreateCommand(),
		userDeleteCommand(),
	)
	return cmd
}

func userCreateCommand() *cobra.Command {
	var form dto.RegisterForm
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create user",
		Long: "Creates a user with the given username. The password is read from stdin or\n" +
			"from an interactive prompt.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			form.Username = args[0]
			passwd, err := prompt(cmd, "password: ", true)
			if err != nil {
				return err
			}
			form.Password = string(passwd)
			if errs := dto.Check(&form); errs != nil {
				return fieldError(errs)
			}

			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if _, err := app.Users.Register(cmd.Context(), services.RegisterInput{
				Username:  form.Username,
				Password:  form.Password,
				Email:     form.Email,
				FirstName: form.FirstName,
				LastName:  form.LastName,
			}); err != nil {
				return fmt.Errorf("create user %s: %w", form.Username, err)
			}
			zerolog.Ctx(cmd.Context()).Info().Str("username", form.Username).Msg("created user")
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	return cmd
}

func userDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete user",
		Long:  "Permanently deletes the user and all of its feedback.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			app, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			name := args[0]
			logger := zerolog.Ctx(cmd.Context()).With().Str("username", name).Logger()
			if ok, err := app.Users.Exists(cmd.Context(), name); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("user %s does not exist", name)
			}
			if !yes {
				resp, err := prompt(cmd, "Are you sure you want to delete this user? [y|N] ", false)
				if err != nil || !bytes.Equal(resp, []byte{'y'}) {
					logger.Info().Msg("aborted user deletion")
					return err
				}
			}
			if err := app.Users.Delete(cmd.Context(), name); err != nil {
				return err
			}
			logger.Info().Msg("user deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func fieldError(errs dto.FieldErrors) error {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field+": "+errs[field])
	}
	return errors.New("invalid user: " + strings.Join(msgs, "; "))
}
