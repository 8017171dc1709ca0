package app

import (
	"context"
	"testing"

	"github.com/jmehdipour/econnect-gateway/internal/config"
	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/soap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStores_SkipsUnconfigured(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.MySQL.DSN = ""
	cfg.ClickHouse.DSN = ""
	cfg.Redis.Addr = ""

	s, err := OpenStores(cfg, Need{MySQL: true, ClickHouse: true, Redis: true})
	require.NoError(t, err)
	assert.Nil(t, s.MySQL)
	assert.Nil(t, s.ClickHouse)
	assert.Nil(t, s.Redis)
	s.Close()
}

func TestNewJournal_NilWithoutSinks(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Nil(t, NewJournal(cfg, &Stores{}))
	assert.Nil(t, NewJournal(cfg, nil))

	cfg.Journal.Enabled = false
	assert.Nil(t, NewJournal(cfg, &Stores{}))
}

func TestRunJournal_NilIsNoop(t *testing.T) {
	stop := RunJournal(nil)
	stop()
}

func TestNewGateway_UsesConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Gateway.Mode = econnect.ModeLive

	var got string
	tr := econnect.TransportFunc(func(_ context.Context, op string, _ soap.Params) (soap.Object, error) {
		got = op
		return soap.Object{"portalProcessId": "ORD1"}, nil
	})
	gw, err := NewGateway(context.Background(), cfg, nil, econnect.WithTransport(tr))
	require.NoError(t, err)

	assert.Equal(t, econnect.DefaultEndpoint, gw.Endpoint())
	env := gw.CommitProcess(context.Background(), "JOB1")
	assert.Equal(t, econnect.Envelope{Error: 0, Result: "ORD1"}, env)
	assert.Equal(t, econnect.OpCommitProcess, got)
}

func TestNewGateway_InvalidEndpoint(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Gateway.Mode = econnect.ModeLive
	cfg.Gateway.Endpoint = "ftp://example.com/API095"

	_, err = NewGateway(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, econnect.ErrTransportInit)
}
