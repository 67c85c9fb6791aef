package classifier

import (
	"context"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/classifierpb"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// RemoteClassifier delegates classification to a loanrisk.v1.Classifier server.
type RemoteClassifier struct {
	target  string
	timeout time.Duration
	conn    *grpc.ClientConn
	client  classifierpb.ClassifierClient
	log     logger.Logger
	info    models.ModelInfo
}

// NewRemoteClassifier creates a client for target. The connection is established lazily.
func NewRemoteClassifier(target string, timeout time.Duration, log logger.Logger, opts ...grpc.DialOption) (*RemoteClassifier, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, errors.ErrClassifierUnavailable(target).WithCause(err)
	}
	return &RemoteClassifier{
		target:  target,
		timeout: timeout,
		conn:    conn,
		client:  classifierpb.NewClassifierClient(conn),
		log:     log,
		info: models.ModelInfo{
			Name:     "remote",
			Version:  target,
			Backend:  string(constants.BackendRemote),
			Source:   target,
			LoadedAt: time.Now().UTC(),
		},
	}, nil
}

func (c *RemoteClassifier) Info() models.ModelInfo { return c.info }

// Classify sends the record and decodes (label, probabilities). Transport
// failures map to ErrClassifierUnavailable; undecodable replies to
// ErrMalformedClassifierOutput.
func (c *RemoteClassifier) Classify(ctx context.Context, record *models.ClientRecord) (*models.Classification, error) {
	req, err := EncodeRecord(record)
	if err != nil {
		return nil, errors.ErrInvalidRequest("record cannot be encoded").WithCause(err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Predict(ctx, req)
	if err != nil {
		c.log.Warn(ctx, "remote classifier call failed",
			logger.String("target", c.target),
			logger.String("code", status.Code(err).String()),
		)
		if status.Code(err) == codes.Internal {
			return nil, errors.ErrMalformedClassifierOutput("model server failed").WithCause(err)
		}
		return nil, errors.ErrClassifierUnavailable(c.target).WithCause(err)
	}

	out, err := DecodeClassification(resp)
	if err != nil {
		return nil, errors.ErrMalformedClassifierOutput(err.Error())
	}
	return out, nil
}

// Close releases the connection.
func (c *RemoteClassifier) Close() error {
	return c.conn.Close()
}
