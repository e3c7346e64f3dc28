package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
	"github.com/gatehouselabs/gatehouse/pkg/idx"
	"github.com/gatehouselabs/gatehouse/pkg/jwtx"
)

// InitSigningKeys prepares the Ed25519 signer and the key set that backs
// the JWKS endpoint.
//
// With GATEHOUSE_SIGNING_KEY_FILE set, the PEM key at that path is loaded,
// and generated there first if the file does not exist, so tokens survive
// restarts. Without it an ephemeral key is generated in memory and every
// outstanding token dies with the process.
func InitSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	pemKey, err := loadOrGenerateKey(cfg.SigningKeyFile)
	if err != nil {
		return nil, nil, err
	}

	// The kid only needs to be unique within the set; a ULID is plenty.
	signer, err := jwtx.NewSignerEdDSA(idx.New().String(), pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, fmt.Errorf("register signing key: %w", err)
	}

	mode := "persistent"
	if cfg.SigningKeyFile == "" {
		mode = "ephemeral"
	}
	logger.Info("signing key ready", "kid", signer.KID(), "alg", signer.Alg(), "mode", mode)

	return signer, keys, nil
}

func loadOrGenerateKey(path string) ([]byte, error) {
	if path == "" {
		return cryptox.GenerateEd25519Key()
	}

	pemKey, err := os.ReadFile(path)
	if err == nil {
		return pemKey, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read signing key file: %w", err)
	}

	pemKey, err = cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return nil, fmt.Errorf("write signing key file: %w", err)
	}
	return pemKey, nil
}
