package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Vinith-15116/studio1/pkg/tlsutil"
)

func (c *cli) newDevCertsCmd() *cobra.Command {
	var (
		outDir string
		hosts  []string
	)

	cmd := &cobra.Command{
		Use:   "dev-certs",
		Short: "Generate a development CA and server certificate for pulsed",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateSelfSignedCert(hosts, outDir); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "TLS_CERT_FILE=%s\nTLS_KEY_FILE=%s\n",
				filepath.Join(outDir, "server.pem"),
				filepath.Join(outDir, "server-key.pem"),
			)
			fmt.Fprintf(c.out, "# clients: pulsectl --server <addr> --ca-file %s\n", filepath.Join(outDir, "ca.pem"))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "certs", "output directory")
	cmd.Flags().StringSliceVar(&hosts, "host", []string{"localhost", "127.0.0.1"}, "DNS names or IPs for the server certificate")
	return cmd
}
