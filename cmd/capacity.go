package cmd

import (
	"fmt"

	"github.com/Beastly713/whisper/pkg/bitconv"
	"github.com/Beastly713/whisper/pkg/envelope"
	"github.com/Beastly713/whisper/pkg/imageio"
	"github.com/Beastly713/whisper/pkg/stego"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var capacityPassword string

var capacityCmd = &cobra.Command{
	Use:   "capacity [image]",
	Short: "Calculate how much text an image can hold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pixels, err := imageio.LoadFile(args[0])
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Profile", "Capacity (bits)", "Message (bytes)")

		plainBits := stego.Capacity(pixels.Pix, stego.Plain)
		t.Row(stego.Plain.String(), fmt.Sprint(plainBits), fmt.Sprint(plainBits/bitconv.BitsPerByte))

		pw := baseConfig(capacityPassword).Password
		protectedBits := stego.Capacity(pixels.Pix, stego.Protected)
		protectedBytes := protectedBits/bitconv.BitsPerByte - envelope.Overhead(pw)
		if protectedBytes < 0 {
			protectedBytes = 0
		}
		label := stego.Protected.String()
		if pw == "" {
			label += " (excl. password)"
		}
		t.Row(label, fmt.Sprint(protectedBits), fmt.Sprint(protectedBytes))

		fmt.Fprintf(cmd.OutOrStdout(), "%dx%d pixels\n%s\n", pixels.Width, pixels.Height, t.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(capacityCmd)

	capacityCmd.Flags().StringVarP(&capacityPassword, "password", "p", "", "Account for this password's overhead (or set "+passwordEnv+")")
}
