package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"

	"github.com/Vinith-15116/studio1/internal/application/dto"
	"github.com/Vinith-15116/studio1/internal/application/usecase"
	"github.com/Vinith-15116/studio1/internal/domain/service"
	"github.com/Vinith-15116/studio1/internal/infrastructure/config"
	"github.com/Vinith-15116/studio1/internal/infrastructure/kafka"
	"github.com/Vinith-15116/studio1/internal/infrastructure/llm"
	"github.com/Vinith-15116/studio1/internal/infrastructure/telemetry"
	grpcpresentation "github.com/Vinith-15116/studio1/internal/presentation/grpc"
	"github.com/Vinith-15116/studio1/pkg/tlsutil"
)

// reportFlags builds a report from a YAML file and/or individual flags.
// Flags that are set override the file.
type reportFlags struct {
	file        string
	title       string
	description string
	location    string
	category    string
	tags        []string
}

func (f *reportFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "YAML or JSON report file (- for stdin)")
	flags.StringVar(&f.title, "title", "", "report title")
	flags.StringVar(&f.description, "description", "", "report description")
	flags.StringVar(&f.location, "location", "", "location (defaults to Global)")
	flags.StringVar(&f.category, "category", "", "category (defaults to General)")
	flags.StringArrayVar(&f.tags, "tag", nil, "tag, repeatable")
}

func (f *reportFlags) request(cmd *cobra.Command) (dto.RiskReportRequest, error) {
	var req dto.RiskReportRequest

	if f.file != "" {
		data, err := f.read(cmd.InOrStdin())
		if err != nil {
			return req, err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return req, fmt.Errorf("parse report %s: %w", f.file, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		req.Title = f.title
	}
	if flags.Changed("description") {
		req.Description = f.description
	}
	if flags.Changed("location") {
		req.Location = f.location
	}
	if flags.Changed("category") {
		req.Category = f.category
	}
	if flags.Changed("tag") {
		req.Tags = f.tags
	}
	return req, nil
}

func (f *reportFlags) read(stdin io.Reader) ([]byte, error) {
	if f.file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read report from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}

// remoteFlags select a running daemon instead of a local backend.
type remoteFlags struct {
	server             string
	caFile             string
	tls                bool
	insecureSkipVerify bool
	timeout            time.Duration
}

func (r *remoteFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&r.server, "server", "", "pulsed gRPC address; empty calls the backend directly")
	flags.BoolVar(&r.tls, "tls", false, "use TLS for --server")
	flags.StringVar(&r.caFile, "ca-file", "", "CA certificate for --server (implies --tls)")
	flags.BoolVar(&r.insecureSkipVerify, "insecure-skip-verify", false, "skip server certificate verification")
	flags.DurationVar(&r.timeout, "timeout", 2*time.Minute, "overall deadline")
}

func (r *remoteFlags) dial() (*grpclib.ClientConn, error) {
	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if r.tls || r.caFile != "" {
		var err error
		creds, err = tlsutil.ClientTLSConfig(r.caFile, r.insecureSkipVerify)
		if err != nil {
			return nil, err
		}
	}
	conn, err := grpclib.NewClient(r.server,
		grpclib.WithTransportCredentials(creds),
		grpcpresentation.ClientCodecOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", r.server, err)
	}
	return conn, nil
}

func (c *cli) newRecommendCmd() *cobra.Command {
	var (
		report reportFlags
		remote remoteFlags
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Classify a risk report and print the recommendation as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := report.request(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), remote.timeout)
			defer cancel()

			if remote.server != "" {
				return c.recommendRemote(ctx, &remote, req)
			}
			return c.recommendLocal(ctx, req)
		},
	}
	report.register(cmd)
	remote.register(cmd)
	return cmd
}

func (c *cli) recommendLocal(ctx context.Context, req dto.RiskReportRequest) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	backend, err := llm.NewBackend(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	recorder, err := telemetry.NewRecorder(otel.GetMeterProvider().Meter("problempulse/pulsectl"), backend.Name())
	if err != nil {
		return err
	}

	uc := usecase.NewRecommendPriority(
		service.NewRecommender(backend, c.logger),
		kafka.NewNoopPublisher(c.logger),
		recorder,
		c.logger,
	)
	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return err
	}
	return c.printJSON(resp)
}

func (c *cli) recommendRemote(ctx context.Context, remote *remoteFlags, req dto.RiskReportRequest) error {
	conn, err := remote.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := grpcpresentation.NewTriageServiceClient(conn).RecommendPriority(ctx,
		&grpcpresentation.RecommendPriorityRequest{Report: toReportMsg(req)})
	if err != nil {
		return err
	}
	return c.printJSON(resp.Recommendation)
}

func (c *cli) newRenderCmd() *cobra.Command {
	var (
		report reportFlags
		remote remoteFlags
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the prompt a model would receive for a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := report.request(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), remote.timeout)
			defer cancel()

			var prompt string
			if remote.server != "" {
				conn, err := remote.dial()
				if err != nil {
					return err
				}
				defer conn.Close()
				resp, err := grpcpresentation.NewTriageServiceClient(conn).RenderPrompt(ctx,
					&grpcpresentation.RenderPromptRequest{Report: toReportMsg(req)})
				if err != nil {
					return err
				}
				prompt = resp.Prompt
			} else {
				resp, err := usecase.NewRenderPrompt().Execute(ctx, req)
				if err != nil {
					return err
				}
				prompt = resp.Prompt
			}

			_, err = io.WriteString(c.out, prompt)
			return err
		},
	}
	report.register(cmd)
	remote.register(cmd)
	return cmd
}

func toReportMsg(req dto.RiskReportRequest) *grpcpresentation.RiskReportMsg {
	return &grpcpresentation.RiskReportMsg{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		Tags:        req.Tags,
	}
}
