package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "stockledger", Out: &buf})

	l := log.Component("movements")
	l.Info().Int64("component_id", 7).Msg("movimiento registrado")
	log.Debug().Msg("descartado por nivel")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "debug no se emite con nivel info")

	var ev map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &ev))
	assert.Equal(t, "stockledger", ev["service"])
	assert.Equal(t, "movements", ev["component"])
	assert.Equal(t, "movimiento registrado", ev["message"])
	assert.EqualValues(t, 7, ev["component_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, logger.ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("desconocido"))
}
