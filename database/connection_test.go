package database

import (
	"testing"

	"github.com/Ananth-NQI/docverify-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBPass: "p", DBName: "n", DBHost: "db", DBPort: "6543"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=6543 sslmode=disable", DSN(cfg))

	cfg.InstanceConnectionName = "proj:region:inst"
	assert.Equal(t, "host=/cloudsql/proj:region:inst user=u password=p dbname=n sslmode=disable", DSN(cfg))
}
