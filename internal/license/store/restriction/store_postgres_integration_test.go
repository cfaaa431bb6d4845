//go:build integration

package restriction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licenseguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	storeSuite
	postgres *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "license_restrictions"))
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}
