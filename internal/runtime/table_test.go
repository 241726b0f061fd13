package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parcel/pkg/domain"
)

func TestDefaultTable_IsValid(t *testing.T) {
	require.NoError(t, DefaultTable().Validate())
}

func TestDefaultTable_ReachesEveryState(t *testing.T) {
	reached := DefaultTable().Reachable(domain.StateInitialized)
	assert.ElementsMatch(t, domain.States, reached)
}

func TestDefaultTable_Edges(t *testing.T) {
	edges := DefaultTable().Edges()

	var happy, failure int
	for _, e := range edges {
		if e.OnError {
			failure++
			assert.Equal(t, domain.StateFailed, e.To)
			continue
		}
		happy++
	}
	assert.Equal(t, 7, happy)
	assert.Equal(t, 6, failure)
	assert.Equal(t, Edge{From: domain.StateInitialized, To: domain.StateDataCollection}, edges[0])
}

func TestTable_Validate(t *testing.T) {
	missing := DefaultTable()
	delete(missing, domain.StateRiskAnalysis)
	assert.Error(t, missing.Validate())

	terminal := DefaultTable()
	terminal[domain.StateCompleted] = Stage{State: domain.StateCompleted, Handler: handleFinalRecommendation, Next: []domain.State{domain.StateCompleted}}
	assert.Error(t, terminal.Validate())

	noNext := DefaultTable()
	stage := noNext[domain.StateDataCollection]
	stage.Next = nil
	noNext[domain.StateDataCollection] = stage
	assert.Error(t, noNext.Validate())
}
