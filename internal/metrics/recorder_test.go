package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_SafeOnAllMethods(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.SetPagesRendered(10)
	r.IncRebuildTrigger("watch")
}

func TestPrometheusRecorder_RegistersAndRecords(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveStageDuration("render", 250*time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome(OutcomeSuccess)
	r.SetPagesRendered(42)
	r.IncRebuildTrigger("schedule")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["docsite_stage_duration_seconds"])
	require.True(t, names["docsite_build_duration_seconds"])
	require.True(t, names["docsite_build_outcomes_total"])
	require.True(t, names["docsite_pages_rendered"])
	require.True(t, names["docsite_rebuild_triggers_total"])
}

func TestPrometheusRecorder_NilReceiverSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveStageDuration("render", time.Second)
	p.IncBuildOutcome(OutcomeFailed)
	p.SetPagesRendered(1)
}
