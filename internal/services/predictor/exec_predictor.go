package predictor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"CryptoBasket/internal/domain/models"
	"CryptoBasket/pkg/config"
)

// ExecPredictor runs a local forecasting program and reads JSON points from
// its stdout.
type ExecPredictor struct {
	command string
	args    []string
	timeout time.Duration
}

func NewExecPredictor(cfg *config.Config) *ExecPredictor {
	return &ExecPredictor{
		command: cfg.Predictor.Command,
		args:    cfg.Predictor.Args,
		timeout: cfg.Predictor.Timeout,
	}
}

func (p *ExecPredictor) Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionPoint, error) {
	if p.command == "" {
		return nil, fmt.Errorf("predictor command not configured")
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.command, append(append([]string{}, p.args...), Flags(req)...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 256 {
			msg = msg[:256]
		}
		return nil, fmt.Errorf("run %s: %w: %s", p.command, err, msg)
	}

	points, err := NormalizePoints(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("normalize output: %w", err)
	}
	return points, nil
}

// Flags renders req as command-line flags. Zero values are left out.
func Flags(req models.PredictionRequest) []string {
	out := []string{"--days", strconv.Itoa(req.Days)}
	if req.Year > 0 {
		out = append(out, "--year", strconv.Itoa(req.Year))
	}
	if req.Scope != "" {
		out = append(out, "--scope", req.Scope)
	}
	if req.Symbol != "" {
		out = append(out, "--symbol", req.Symbol)
	}
	return out
}
