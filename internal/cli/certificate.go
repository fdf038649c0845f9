package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"little-genius/internal/app"
	"little-genius/internal/certificate"
	"little-genius/internal/config"
	"little-genius/internal/domain"
)

// NewCertificateCmd renders a certificate offline, e.g. for a printed classroom award.
func NewCertificateCmd(configPath *string) *cobra.Command {
	var (
		result domain.ResultSummary
		mode   string
		format string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "certificate",
		Short: "Render a certificate to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := domain.Mode(mode)
			if !m.Valid() {
				return fmt.Errorf("%w: %s", domain.ErrUnknownMode, mode)
			}
			result.ModeLabel = m.Label()
			result.Timestamp = time.Now()

			var renderer app.CertificateRenderer
			switch app.CertificateFormat(format) {
			case app.CertificatePNG:
				cfg, err := config.Load(*configPath)
				if err != nil {
					return err
				}
				if renderer, err = pngRenderer(cfg); err != nil {
					return err
				}
			case app.CertificateText:
				renderer = certificate.TextRenderer{}
			default:
				return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
			}
			cert, err := renderer.Render(result)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, cert.Filename)
			if err := os.WriteFile(path, cert.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&result.PlayerName, "name", "", "player name")
	cmd.Flags().IntVar(&result.Score, "score", 0, "final score")
	cmd.Flags().IntVar(&result.TotalQuestions, "total", 10, "number of questions")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeMixed), "game mode")
	cmd.Flags().StringVar(&format, "format", string(app.CertificatePNG), "png or txt")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}
