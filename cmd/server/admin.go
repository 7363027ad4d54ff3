package main

import (
	"fmt"
	"log"

	"anoa.com/eventtech/internal/bootstrap"
	"anoa.com/eventtech/pkg/database"
	"github.com/spf13/cobra"

	activityService "anoa.com/eventtech/internal/modules/activity/service"
	adminRepo "anoa.com/eventtech/internal/modules/admin/repository"
	adminService "anoa.com/eventtech/internal/modules/admin/service"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := bootstrap.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Println("✅ Migration complete")
			return nil
		},
	}
}

func createAdminCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			defer database.Close(db)

			admins := adminService.NewAdminService(adminRepo.NewAdminRepository(db), activityService.NewPublisher(nil))
			id, err := admins.CreateAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			log.Printf("✅ Admin %q created with id %d", username, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func setPasswordCommand() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Reset an administrator password",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(configFromContext(cmd.Context()))
			if err != nil {
				return err
			}
			defer database.Close(db)

			admins := adminService.NewAdminService(adminRepo.NewAdminRepository(db), activityService.NewPublisher(nil))
			if err := admins.ChangePassword(cmd.Context(), username, password); err != nil {
				return err
			}
			log.Printf("✅ Password updated for %q", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
