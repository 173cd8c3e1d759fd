package stats

import (
	"context"

	"keydrill/internal/model"
	"keydrill/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionAggregate
	KeyAggs  []model.KeyAggregate
}

// BuildReport loads and prepares data for stats rendering. Key aggregates
// cover only the trailing curve window of sessions so the weak-key table
// reflects recent form, not all-time history.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	keyAggs, err := st.ListKeyAggregatesForSessions(ctx, lastSessionIDs(sessions, cfg.CurveWindow))
	if err != nil {
		return Report{}, err
	}

	return Report{
		Sessions: sessions,
		KeyAggs:  keyAggs,
	}, nil
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window > 0 && len(sessions) > window {
		sessions = sessions[len(sessions)-window:]
	}
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.SessionID
	}
	return ids
}
