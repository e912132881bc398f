package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"examauth/internal/config"
	"examauth/internal/logging"
)

func TestRun_ReturnsStartupErrors(t *testing.T) {
	cfg := &config.Config{MySQLDSN: "not a dsn"}

	err := run(context.Background(), cfg, logging.Discard())
	assert.ErrorContains(t, err, "database init")
}
