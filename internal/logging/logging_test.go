package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevelReachesEveryLogger(t *testing.T) {
	t.Cleanup(func() { SetLevel(logrus.InfoLevel) })

	first := New()
	second := New()
	assert.Equal(t, logrus.InfoLevel, first.GetLevel())

	SetLevel(logrus.DebugLevel)
	assert.Equal(t, logrus.DebugLevel, first.GetLevel())
	assert.Equal(t, logrus.DebugLevel, second.GetLevel())

	later := New()
	assert.Equal(t, logrus.DebugLevel, later.GetLevel(), "loggers created afterwards start at the shared level")
	_, ok := later.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}
