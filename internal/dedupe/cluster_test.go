package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pair(a, b string) MatchSignal {
	return MatchSignal{MatchType: MatchTypeEmail, ContactIDs: []string{a, b}}
}

func TestCluster_TransitiveClosure(t *testing.T) {
	// Given: A-B and B-C edges but no direct A-C evidence
	signals := []MatchSignal{pair("a", "b"), pair("b", "c")}

	clusters := Cluster(signals)

	// Then: all three collapse into one cluster
	assert.Equal(t, [][]string{{"a", "b", "c"}}, clusters)
}

func TestCluster_SeparateComponentsStaySeparate(t *testing.T) {
	signals := []MatchSignal{pair("a", "b"), pair("x", "y"), pair("y", "z")}

	clusters := Cluster(signals)

	assert.Equal(t, [][]string{{"a", "b"}, {"x", "y", "z"}}, clusters)
}

func TestCluster_WideSignalConnectsAllMembers(t *testing.T) {
	// A single signal naming four contacts is a clique, not a chain
	signals := []MatchSignal{{
		MatchType:  MatchTypePhone,
		ContactIDs: []string{"d", "c", "b", "a"},
	}}

	clusters := Cluster(signals)

	assert.Equal(t, [][]string{{"a", "b", "c", "d"}}, clusters)
}

func TestCluster_IgnoresDegenerateSignals(t *testing.T) {
	signals := []MatchSignal{
		{MatchType: MatchTypeEmail, ContactIDs: []string{"solo"}},
		{MatchType: MatchTypeEmail, ContactIDs: nil},
	}

	assert.Empty(t, Cluster(signals))
}

func TestCluster_NoSignals(t *testing.T) {
	assert.Empty(t, Cluster(nil))
}

func TestCluster_DuplicateEdgesCollapse(t *testing.T) {
	// The same pair reported by several detectors is still one cluster
	signals := []MatchSignal{
		{MatchType: MatchTypeEmail, ContactIDs: []string{"a", "b"}},
		{MatchType: MatchTypePhone, ContactIDs: []string{"b", "a"}},
		{MatchType: MatchTypeFuzzyName, ContactIDs: []string{"a", "b"}},
	}

	assert.Equal(t, [][]string{{"a", "b"}}, Cluster(signals))
}

func TestCluster_OutputIsDeterministic(t *testing.T) {
	signals := []MatchSignal{pair("m", "z"), pair("k", "m"), pair("q", "r")}

	first := Cluster(signals)
	second := Cluster(signals)

	assert.Equal(t, first, second)
	assert.Equal(t, [][]string{{"k", "m", "z"}, {"q", "r"}}, first)
}
