package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sumwatshade/watchface/cmd/setup"
	"github.com/sumwatshade/watchface/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively write the watchface config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		m := setup.NewModel(settings)
		if err := m.Run(); err != nil {
			return err
		}
		if err := m.Apply(viper.GetViper()); err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			if path, err = config.DefaultFile(); err != nil {
				return err
			}
		}
		if err := setup.Save(viper.GetViper(), path); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Wrote", path)
		return nil
	},
}
