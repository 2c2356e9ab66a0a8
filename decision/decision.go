package decision

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"go-venuetraffic/oracle"
	"go-venuetraffic/store"
	"go-venuetraffic/types"
)

// Generator derives Decision Records from the latest observation. It has
// no mechanism to target a past observation: latest always wins.
type Generator struct {
	Oracle *oracle.Client
	Store  *store.Store
}

// Generate reads the latest observation, asks the oracle for a decision,
// and appends it to the decision log. An empty observation log or
// unparsable model output aborts with no write.
func (g *Generator) Generate(ctx context.Context) (types.DecisionRecord, error) {
	obs, err := g.Store.LatestObservation()
	if err != nil {
		return types.DecisionRecord{}, err
	}

	decision, err := g.Oracle.Decide(ctx, obs)
	if err != nil {
		return types.DecisionRecord{}, err
	}

	decision.RecordID = uuid.NewString()
	decision.GeneratedAt = time.Now().Format(time.RFC3339)

	if err := g.Store.AppendDecision(decision); err != nil {
		log.Printf("decision: failed to persist decision %s: %v", decision.RecordID, err)
	}

	log.Printf("decision: generated plan %s (priority %s)", decision.RecordID, decision.PriorityLevel)
	return decision, nil
}
