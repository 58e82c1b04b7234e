// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Thermoquad/e2ecan/pkg/e2e"
	"github.com/spf13/cobra"
)

var checksumCmd = &cobra.Command{
	Use:   "checksum <hex bytes>...",
	Short: "Compute both checksum variants over bytes",
	Long: `Compute the nibble-complement (A) and nibble-sum (B) checksums over the
given bytes. Bytes may be split across arguments and separated by spaces,
colons or dashes:

  e2ecan checksum 01 31 32
  e2ecan checksum 01:31:32`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := parseHexArgs(args)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatChecksums(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checksumCmd)
}

// parseHexArgs joins hex byte arguments into one slice
func parseHexArgs(args []string) ([]byte, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "-", "", "0x", "", "0X", "")
	var s strings.Builder
	for _, a := range args {
		s.WriteString(clean.Replace(a))
	}
	data, err := hex.DecodeString(s.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

func formatChecksums(data []byte) string {
	var s strings.Builder
	fmt.Fprintf(&s, "Data (%d bytes): %s\n", len(data), e2e.FormatHex(data))
	for _, v := range []e2e.ChecksumVariant{e2e.ChecksumNibbleComplement, e2e.ChecksumNibbleSum} {
		fmt.Fprintf(&s, "  %s  0x%02X  %s\n", v, v.Compute(data), v.Description())
	}
	return s.String()
}
