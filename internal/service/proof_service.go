package service

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/config"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// VerifyResult reports the outcome of a zero-knowledge proof check.
type VerifyResult struct {
	Valid bool `json:"valid"`
}

// ProofVerifier shells out to the snarkjs CLI for Groth16 proof
// verification. The tool's verdict is trusted as a boolean; the proof
// system itself is out of scope here.
type ProofVerifier struct {
	vkeyPath string
	binPath  string
}

// NewProofVerifier wires the verifier from configuration.
func NewProofVerifier(cfg *config.ZKConfig) *ProofVerifier {
	return &ProofVerifier{
		vkeyPath: cfg.VerificationKey,
		binPath:  cfg.SnarkJSBin,
	}
}

// Verify writes the proof and public signals to a scratch directory and
// runs `snarkjs groth16 verify`. A clean exit with an OK verdict means
// valid; a verification failure is a valid=false result, not an error.
func (v *ProofVerifier) Verify(ctx context.Context, proof, publicSignals interface{}) (*VerifyResult, error) {
	if v.vkeyPath == "" {
		return nil, model.ErrConfiguration.WithMessage("zk verification key not configured")
	}
	if _, err := os.Stat(v.vkeyPath); err != nil {
		return nil, model.WrapWithMessage(model.ErrConfiguration, err, "zk verification key unreadable")
	}

	dir, err := os.MkdirTemp("", "zkproof-*")
	if err != nil {
		return nil, model.Wrap(model.ErrInternal, err)
	}
	defer os.RemoveAll(dir)

	proofPath := filepath.Join(dir, "proof.json")
	publicPath := filepath.Join(dir, "public.json")
	if err := writeJSON(proofPath, proof); err != nil {
		return nil, model.WrapWithMessage(model.ErrValidation, err, "proof is not serializable")
	}
	if err := writeJSON(publicPath, publicSignals); err != nil {
		return nil, model.WrapWithMessage(model.ErrValidation, err, "public signals are not serializable")
	}

	cmd := exec.CommandContext(ctx, v.binPath, "groth16", "verify", v.vkeyPath, publicPath, proofPath)
	output, err := cmd.CombinedOutput()

	verdict := strings.Contains(strings.ToUpper(string(output)), "OK")
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			// snarkjs exits nonzero on an invalid proof
			logger.Info("proof rejected", zap.String("output", strings.TrimSpace(string(output))))
			return &VerifyResult{Valid: false}, nil
		}
		return nil, model.WrapWithMessage(model.ErrInternal, err, "running proof verifier")
	}

	return &VerifyResult{Valid: verdict}, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
