package main

import (
	"context"
	"os"

	"github.com/Invicton-Labs/go-exponent/collections"
	"github.com/Invicton-Labs/go-exponent/config"
	"github.com/Invicton-Labs/go-exponent/evaluator"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"go.uber.org/multierr"
)

const (
	appName = "exponentiator-lambda"

	// EnvConfigSsm names an SSM parameter holding the YAML config document.
	EnvConfigSsm = "EXPONENT_CONFIG_SSM"
	// EnvConfigSecret names a Secrets Manager secret holding the YAML config
	// document, used when EnvConfigSsm is unset.
	EnvConfigSecret = "EXPONENT_CONFIG_SECRET"
	// EnvConfigFile is a config file path, used when neither of the above is set.
	EnvConfigFile = "EXPONENT_CONFIG_FILE"

	defaultConfigFile = "exponentiator.yaml"
)

// Request is either a single base/exponent pair or a list of cases.
type Request struct {
	Base     *float64         `json:"base,omitempty"`
	Exponent *float64         `json:"exponent,omitempty"`
	Cases    []evaluator.Case `json:"cases,omitempty"`
}

type Response struct {
	Evaluation  *evaluator.Evaluation  `json:"evaluation,omitempty"`
	Evaluations []evaluator.Evaluation `json:"evaluations,omitempty"`
	// Per-case failures of a batch request
	Errors []string `json:"errors,omitempty"`
}

type handler struct {
	evaluator *evaluator.Evaluator
}

func newHandler(cfg *config.Config) (*handler, stackerr.Error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logInput, err := cfg.LoggerInput(appName)
	if err != nil {
		return nil, err
	}
	log.InitDefault(logInput)

	e, err := evaluator.New(evaluator.NewInput{
		Config:             cfg.ExponentConfig(),
		CacheMaxSizeBytes:  cfg.Cache.MaxSizeBytes,
		CacheMaxAgeSeconds: cfg.Cache.MaxAgeSeconds,
		Concurrency:        cfg.Batch.Concurrency,
	})
	if err != nil {
		return nil, err
	}
	return &handler{
		evaluator: e,
	}, nil
}

func newHandlerFromEnv(ctx context.Context) (*handler, stackerr.Error) {
	var cfg *config.Config
	var err stackerr.Error
	if param := os.Getenv(EnvConfigSsm); param != "" {
		cfg, err = config.LoadFromSsm(ctx, param)
	} else if secretId := os.Getenv(EnvConfigSecret); secretId != "" {
		cfg, err = config.LoadFromSecret(ctx, secretId)
	} else {
		path := os.Getenv(EnvConfigFile)
		if path == "" {
			path = defaultConfigFile
		}
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	return newHandler(cfg)
}

func (h *handler) Handle(ctx context.Context, req Request) (Response, error) {
	log.SweetenDefaultLoggerForLambda(ctx, nil)
	defer log.UnsweetenDefaultLogger([]string{"request_id", "logs_url"})
	defer h.logMetrics()

	if req.Cases != nil {
		if req.Base != nil || req.Exponent != nil {
			return Response{}, stackerr.Errorf("A request must contain either base and exponent, or cases, not both")
		}
		results, err := h.evaluator.EvaluateBatch(ctx, req.Cases)
		resp := Response{
			Evaluations: results,
		}
		if err != nil {
			log.Warnw("Some cases failed", "failed", len(multierr.Errors(err)), "total", len(req.Cases))
			resp.Errors = collections.TransformSlice(multierr.Errors(err), func(e error) string {
				return e.Error()
			})
		}
		return resp, nil
	}

	if req.Base == nil || req.Exponent == nil {
		return Response{}, stackerr.Errorf("A request must contain both base and exponent")
	}
	ev, err := h.evaluator.Evaluate(ctx, *req.Base, *req.Exponent)
	if err != nil {
		log.Error(err)
		return Response{}, err
	}
	log.Infow("Evaluated power", "base", *req.Base, "exponent", *req.Exponent, "result", ev.Display)
	return Response{
		Evaluation: &ev,
	}, nil
}

// logMetrics writes the evaluator's metrics, cumulative over the life of
// the execution environment, to the invocation's log stream.
func (h *handler) logMetrics() {
	samples, err := h.evaluator.Metrics()
	if err != nil {
		log.WithError(err).Warnw("Failed to gather metrics")
		return
	}
	log.Infow("Evaluator metrics", "metrics", samples, "stats", h.evaluator.Stats())
}
