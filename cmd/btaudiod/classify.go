package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/srg/btaudio/internal/profile"
	"github.com/srg/btaudio/internal/sdp"
)

// classifyCmd decodes a service record and prints its classification
var classifyCmd = &cobra.Command{
	Use:   "classify <hex-record>",
	Short: "Classify raw service record bytes",
	Long: `Decode hex-encoded service record bytes and print the 16-bit
service class and the audio interface it activates, if any.

Example:
  btaudiod classify 35061909000111081909...`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}

	rec, err := sdp.Decode(raw)
	if err != nil {
		return err
	}

	yellow := color.New(color.FgYellow)
	class, ok := rec.ServiceClassID()
	if !ok {
		_, _ = yellow.Fprintln(os.Stdout, "no 16-bit service class")
		return nil
	}

	fmt.Printf("class: 0x%04X\n", class)
	if iface, ok := profile.InterfaceForClass(class); ok {
		_, _ = color.New(color.FgGreen).Fprintf(os.Stdout, "interface: %s\n", iface.Name())
	} else {
		_, _ = yellow.Fprintln(os.Stdout, "interface: none")
	}
	if ch, ok := rec.RFCOMMChannel(); ok {
		fmt.Printf("rfcomm channel: %d\n", ch)
	}
	return nil
}
