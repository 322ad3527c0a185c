package exec_test

import (
	"context"
	"testing"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/exec"
	"github.com/stretchr/testify/assert"
)

func TestServer(t *testing.T) {
	t.Parallel()

	t.Run("shutdown before first check is a no-op", func(t *testing.T) {
		t.Parallel()

		s := exec.NewServer("languagetool-server.jar")

		assert.NoError(t, s.Shutdown(context.Background()))
	})

	t.Run("configure before first check is deferred", func(t *testing.T) {
		t.Parallel()

		s := exec.NewServer("languagetool-server.jar")

		assert.NoError(t, s.Configure(context.Background(), typcheck.BackendConfig{
			Dictionary: []string{"typcheck"},
		}))
	})

	t.Run("missing java executable is unavailable", func(t *testing.T) {
		t.Parallel()

		s := exec.NewServer("languagetool-server.jar",
			exec.WithJavaPath("definitely-not-a-java-binary"))

		_, err := s.Check(context.Background(), "en-US", "text")

		assert.Equal(t, typcheck.EUNAVAILABLE, typcheck.ErrorCode(err))
	})
}
