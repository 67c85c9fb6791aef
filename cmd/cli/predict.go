package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/turtacn/loanrisk/internal/application/dto"
	appservice "github.com/turtacn/loanrisk/internal/application/service"
	domainservice "github.com/turtacn/loanrisk/internal/domain/service"
	"github.com/turtacn/loanrisk/internal/infrastructure/classifier"
	"github.com/turtacn/loanrisk/internal/infrastructure/monitoring"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

type predictOptions struct {
	artifactPath string
	remote       string
	timeout      time.Duration
	recordPath   string
	asJSON       bool
}

// newPredictCmd scores one client record read from a JSON file or stdin.
func newPredictCmd() *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one client record",
		Long: `Reads a client record as JSON (field names as in the API) from --record,
or from stdin when --record is "-", and prints the prediction.`,
		Example: `  loanrisk-admin predict --artifact models/adaboost_pipeline.json --record client.json
  cat client.json | loanrisk-admin predict --remote model-server:9090 --record -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPredict(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.artifactPath, "artifact", "", "Path of the model artifact")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "Address of a remote classifier server")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "Timeout of a remote classifier call")
	cmd.Flags().StringVar(&opts.recordPath, "record", "", `JSON file holding the client record, "-" for stdin`)
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the prediction as JSON")
	cmd.MarkFlagsMutuallyExclusive("artifact", "remote")
	cmd.MarkFlagsOneRequired("artifact", "remote")
	_ = cmd.MarkFlagRequired("record")
	return cmd
}

func runPredict(cmd *cobra.Command, opts *predictOptions) error {
	req, err := readRecord(cmd.InOrStdin(), opts.recordPath)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	record, err := req.ToRecord()
	if err != nil {
		return err
	}

	log := logger.NewNoopLogger()
	var clf domainservice.Classifier
	if opts.remote != "" {
		remote, err := classifier.NewRemoteClassifier(opts.remote, opts.timeout, log)
		if err != nil {
			return err
		}
		defer remote.Close()
		clf = remote
	} else {
		clf, err = classifier.NewArtifactClassifier(opts.artifactPath)
		if err != nil {
			return err
		}
	}

	predictions := appservice.NewPredictionAppService(
		domainservice.NewScoringService(clf),
		nil,
		monitoring.NewMetricsAdapter(monitoring.NewMetrics(prometheus.NewRegistry())),
		monitoring.NewTracingManagerWithProvider(noop.NewTracerProvider(), log),
		log,
	)
	res, err := predictions.Predict(cmd.Context(), record, constants.SourceCLI)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewPredictionResponse(record, res))
	}

	fmt.Fprintln(out, res.Headline())
	fmt.Fprintf(out, "Probability: %s\n", res.ProbabilityDisplay())
	fmt.Fprintln(out, "Probability Distribution:")
	for _, d := range res.Distribution() {
		fmt.Fprintf(out, "  %-12s %7.2f%%\n", d.Outcome, d.Probability*100)
	}
	info := predictions.ModelInfo()
	fmt.Fprintf(out, "Model: %s %s (%s)\n", info.Name, info.Version, info.Backend)
	return nil
}

func readRecord(stdin io.Reader, path string) (*dto.ClientRecordRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open record: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req dto.ClientRecordRequest
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &req, nil
}
