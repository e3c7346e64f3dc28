package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatehouselabs/gatehouse/internal/auth/store"
	"github.com/gatehouselabs/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/gatehouselabs/gatehouse/pkg/cryptox"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "gatehouse-service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	// Cheap hashing keeps the suite fast; production costs are irrelevant
	// to the behaviour under test.
	cryptox.SetParams(cryptox.Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	})

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	name := strings.NewReplacer("/", "_", "#", "_").Replace(t.Name())
	s, err := sqlite.NewStore("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestService(t *testing.T) *UserService {
	t.Helper()
	validator := &CredentialValidator{Policy: DefaultPasswordPolicy()}
	return NewUserService(newTestStore(t), validator, 2)
}
