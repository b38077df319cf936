package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			l := New("debug", env)
			require.NotNil(t, l)
			l.Debugf("debug %d", 1)
			l.Infof("info %s", "x")
		})
	}
}

func TestNewWithWriter_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("info", &buf)

	l.Debugf("hidden")
	assert.Empty(t, buf.String())

	Component(l, "forecast").WithFields(map[string]interface{}{"city": "Riyadh"}).WithError(errors.New("boom")).Warnf("rollout failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "rollout failed", entry["msg"])
	assert.Equal(t, "forecast", entry["component"])
	assert.Equal(t, "Riyadh", entry["city"])
	assert.Equal(t, "boom", entry["error"])
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("loud", &buf)

	l.Debugf("hidden")
	l.Infof("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Errorf("nothing to see")
	assert.NotNil(t, l.WithField("k", "v"))
}
