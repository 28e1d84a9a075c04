package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegisters(t *testing.T) {
	require := require.New(t)

	reg := prometheus.NewRegistry()
	m, err := New("classpoll", reg)
	require.NoError(err)

	m.Events.WithLabelValues("join").Inc()
	m.PollsCompleted.Inc()
	require.Equal(1.0, testutil.ToFloat64(m.Events.WithLabelValues("join")))
	require.Equal(1.0, testutil.ToFloat64(m.PollsCompleted))

	families, err := reg.Gather()
	require.NoError(err)
	require.NotEmpty(families)

	// 重复注册报错
	_, err = New("classpoll", reg)
	require.Error(err)
}

func TestNewWithoutRegisterer(t *testing.T) {
	m, err := New("classpoll", nil)
	require.NoError(t, err)
	m.Dropped.Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(m.Dropped))
}
